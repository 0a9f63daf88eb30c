package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus is the review workflow state of a project.
type ProjectStatus string

const (
	StatusDraft       ProjectStatus = "DRAFT"
	StatusUnderReview ProjectStatus = "UNDER_REVIEW"
	StatusApproved    ProjectStatus = "APPROVED"
	StatusRejected    ProjectStatus = "REJECTED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// ProductStatus describes the maturity of the published product. It has no workflow rules.
type ProductStatus string

const (
	ProductProduction ProductStatus = "PRODUCTION"
	ProductBeta       ProductStatus = "BETA"
	ProductAlpha      ProductStatus = "ALPHA"
	ProductComingSoon ProductStatus = "COMING_SOON"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductProduction, ProductBeta, ProductAlpha, ProductComingSoon:
		return true
	}
	return false
}

type MediaKind string

const (
	MediaImage MediaKind = "IMAGE"
	MediaVideo MediaKind = "VIDEO"
)

func (k MediaKind) Valid() bool {
	return k == MediaImage || k == MediaVideo
}

type DocumentKind string

const (
	DocumentPDF    DocumentKind = "PDF"
	DocumentSlides DocumentKind = "SLIDES"
	DocumentReport DocumentKind = "REPORT"
	DocumentLink   DocumentKind = "LINK"
	DocumentOther  DocumentKind = "OTHER"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentPDF, DocumentSlides, DocumentReport, DocumentLink, DocumentOther:
		return true
	}
	return false
}

// Project is a submission that moves through the review workflow and, once approved,
// is shown publicly as a product.
type Project struct {
	ID            uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name          string                      `json:"name" db:"name" gorm:"type:text;not null"`
	Tagline       string                      `json:"tagline" db:"tagline" gorm:"type:text;not null;default:''"`
	Description   string                      `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	Image         string                      `json:"image" db:"image" gorm:"type:text;not null;default:''"`
	Tags          datatypes.JSONSlice[string] `json:"tags" db:"tags"`
	Technologies  datatypes.JSONSlice[string] `json:"technologies" db:"technologies"`
	DemoURL       *string                     `json:"demoUrl,omitempty" db:"demo_url" gorm:"type:text"`
	GithubURL     *string                     `json:"githubUrl,omitempty" db:"github_url" gorm:"type:text"`
	ProductStatus ProductStatus               `json:"productStatus" db:"product_status" gorm:"type:text;not null"`
	Status        ProjectStatus               `json:"status" db:"status" gorm:"type:text;not null;index"`
	SubmittedByID *uuid.UUID                  `json:"submittedById,omitempty" db:"submitted_by_id" gorm:"type:uuid;index"`
	SubmittedAt   *time.Time                  `json:"submittedAt,omitempty" db:"submitted_at"`
	ReviewedAt    *time.Time                  `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewNotes   *string                     `json:"reviewNotes,omitempty" db:"review_notes" gorm:"type:text"`
	Version       int                         `json:"version" db:"version" gorm:"type:integer;not null;default:1"`
	CreatedAt     time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time                   `json:"updatedAt" db:"updated_at"`

	SubmittedBy *User             `json:"submittedBy,omitempty" gorm:"foreignKey:SubmittedByID;references:ID;constraint:OnDelete:SET NULL"`
	Departments []Department      `json:"departments" gorm:"many2many:project_departments;joinForeignKey:ProjectID;joinReferences:DepartmentID"`
	Media       []ProjectMedia    `json:"media" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Documents   []ProjectDocument `json:"documents" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DepartmentIDs returns the ids of the collaborating departments.
func (p *Project) DepartmentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Departments))
	for _, d := range p.Departments {
		ids = append(ids, d.ID)
	}
	return ids
}

// HasDepartment reports whether id is one of the collaborating departments.
func (p *Project) HasDepartment(id uuid.UUID) bool {
	for _, d := range p.Departments {
		if d.ID == id {
			return true
		}
	}
	return false
}

// SubmitterDepartmentID is the department of the submitting user, nil when the
// project is orphaned or the submitter has no department.
func (p *Project) SubmitterDepartmentID() *uuid.UUID {
	if p.SubmittedBy == nil {
		return nil
	}
	return p.SubmittedBy.DepartmentID
}

// ProjectDepartment is the join row between a project and a collaborating department.
type ProjectDepartment struct {
	ProjectID    uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;primaryKey;not null"`
	DepartmentID uuid.UUID `json:"departmentId" db:"department_id" gorm:"type:uuid;primaryKey;not null;index"`
}

func (ProjectDepartment) TableName() string {
	return "project_departments"
}

// ProjectMedia is an image or video attached to a project. Position is the display order.
type ProjectMedia struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index:idx_project_media_project_id"`
	URL       string    `json:"url" db:"url" gorm:"type:text;not null"`
	Kind      MediaKind `json:"kind" db:"kind" gorm:"type:text;not null"`
	Position  int       `json:"position" db:"position" gorm:"type:integer;not null"`
}

func (ProjectMedia) TableName() string {
	return "project_media"
}

func (m *ProjectMedia) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProjectDocument is a document attached to a project. Position is the display order.
type ProjectDocument struct {
	ID        uuid.UUID    `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID    `json:"projectId" db:"project_id" gorm:"type:uuid;not null;index:idx_project_document_project_id"`
	URL       string       `json:"url" db:"url" gorm:"type:text;not null"`
	Title     string       `json:"title" db:"title" gorm:"type:text;not null"`
	Kind      DocumentKind `json:"kind" db:"kind" gorm:"type:text;not null"`
	Position  int          `json:"position" db:"position" gorm:"type:integer;not null"`
}

func (ProjectDocument) TableName() string {
	return "project_documents"
}

func (d *ProjectDocument) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
