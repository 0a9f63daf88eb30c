package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"gorm.io/datatypes"
)

type MediaInput struct {
	URL  string           `json:"url" validate:"required,url"`
	Kind models.MediaKind `json:"kind" validate:"required,oneof=IMAGE VIDEO"`
}

type DocumentInput struct {
	URL   string              `json:"url" validate:"required,url"`
	Title string              `json:"title" validate:"required,max=200"`
	Kind  models.DocumentKind `json:"kind" validate:"required,oneof=PDF SLIDES REPORT LINK OTHER"`
}

// ProjectInput is the full form submitted when a project is created.
type ProjectInput struct {
	Name          string               `json:"name" validate:"required,max=200"`
	DepartmentIDs []uuid.UUID          `json:"departmentIds" validate:"required,min=1"`
	Tagline       string               `json:"tagline" validate:"max=300"`
	Description   string               `json:"description" validate:"max=20000"`
	Image         string               `json:"image" validate:"omitempty,url"`
	Tags          []string             `json:"tags" validate:"max=30,dive,required,max=60"`
	ProductStatus models.ProductStatus `json:"productStatus" validate:"required,oneof=PRODUCTION BETA ALPHA COMING_SOON"`
	Technologies  []string             `json:"technologies" validate:"max=30,dive,required,max=60"`
	DemoURL       *string              `json:"demoUrl,omitempty" validate:"omitempty,url"`
	GithubURL     *string              `json:"githubUrl,omitempty" validate:"omitempty,url"`
	Media         []MediaInput         `json:"media,omitempty" validate:"max=20,dive"`
	Documents     []DocumentInput      `json:"documents,omitempty" validate:"max=20,dive"`
}

// ProjectPatch is a partial update. A nil field is left untouched. For the three
// association sets a non-nil pointer replaces the whole set, even when empty.
type ProjectPatch struct {
	Name          *string               `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
	DepartmentIDs *[]uuid.UUID          `json:"departmentIds,omitempty"`
	Tagline       *string               `json:"tagline,omitempty" validate:"omitnil,max=300"`
	Description   *string               `json:"description,omitempty" validate:"omitnil,max=20000"`
	Image         *string               `json:"image,omitempty" validate:"omitnil,url_or_blank"`
	Tags          *[]string             `json:"tags,omitempty" validate:"omitnil,max=30,dive,required,max=60"`
	ProductStatus *models.ProductStatus `json:"productStatus,omitempty" validate:"omitnil,oneof=PRODUCTION BETA ALPHA COMING_SOON"`
	Technologies  *[]string             `json:"technologies,omitempty" validate:"omitnil,max=30,dive,required,max=60"`
	DemoURL       *string               `json:"demoUrl,omitempty" validate:"omitnil,url_or_blank"`
	GithubURL     *string               `json:"githubUrl,omitempty" validate:"omitnil,url_or_blank"`
	Media         *[]MediaInput         `json:"media,omitempty" validate:"omitnil,max=20,dive"`
	Documents     *[]DocumentInput      `json:"documents,omitempty" validate:"omitnil,max=20,dive"`
	// Version is the version the edit was based on. When nil the version read at
	// the start of the update is used.
	Version *int `json:"version,omitempty"`
}

// ReviewDecision carries the reviewer's notes for approve and reject.
type ReviewDecision struct {
	Notes   *string `json:"notes,omitempty" validate:"omitnil,max=5000"`
	Version *int    `json:"version,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// url_or_blank lets a patch send "" to clear an optional link.
	_ = v.RegisterValidation("url_or_blank", func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		return s == "" || v.Var(s, "url") == nil
	})
	return v
}

// validationError converts the first validator failure into an invalid field error
// named after the JSON path, e.g. media[1].url.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errs.NewValidationError(err.Error())
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	if fe.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(field)
	}
	reason := fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	return errs.NewInvalidFieldError(field, "failed "+reason)
}

func (in *ProjectInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Tagline = strings.TrimSpace(in.Tagline)
	in.Image = strings.TrimSpace(in.Image)
	in.Tags = cleanSet(in.Tags)
	in.Technologies = cleanSet(in.Technologies)
	in.DemoURL = blankToNil(in.DemoURL)
	in.GithubURL = blankToNil(in.GithubURL)
}

func (p *ProjectPatch) normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	trim(p.Name)
	trim(p.Tagline)
	trim(p.Image)
	trim(p.DemoURL)
	trim(p.GithubURL)
	if p.Tags != nil {
		tags := cleanSet(*p.Tags)
		p.Tags = &tags
	}
	if p.Technologies != nil {
		tech := cleanSet(*p.Technologies)
		p.Technologies = &tech
	}
}

// cleanSet trims entries and removes blanks and duplicates, keeping first-seen order.
func cleanSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toMedia(in []MediaInput) []models.ProjectMedia {
	out := make([]models.ProjectMedia, len(in))
	for i, m := range in {
		out[i] = models.ProjectMedia{URL: strings.TrimSpace(m.URL), Kind: m.Kind, Position: i}
	}
	return out
}

func toDocuments(in []DocumentInput) []models.ProjectDocument {
	out := make([]models.ProjectDocument, len(in))
	for i, d := range in {
		out[i] = models.ProjectDocument{URL: strings.TrimSpace(d.URL), Title: strings.TrimSpace(d.Title), Kind: d.Kind, Position: i}
	}
	return out
}

func jsonSet(values []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](cleanSet(values))
}
