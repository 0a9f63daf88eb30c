package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/database"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rpupo63/research-portal-backend/policy"
	"github.com/rpupo63/research-portal-backend/workflow"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ProjectService is the entry point for everything engineers and admins do with
// projects. Mutations return a Result and never leave partial writes behind.
type ProjectService struct {
	logger      zerolog.Logger
	projects    *database.ProjectRepo
	departments *database.DepartmentRepo
	validate    *validator.Validate
	cache       *PageCache
	index       ProductIndex
	notifier    ReviewNotifier
	reads       singleflight.Group
	now         func() time.Time
}

type ProjectServiceOption func(*ProjectService)

func WithPageCache(cache *PageCache) ProjectServiceOption {
	return func(s *ProjectService) {
		s.cache = cache
	}
}

func WithProductIndex(index ProductIndex) ProjectServiceOption {
	return func(s *ProjectService) {
		s.index = index
	}
}

func WithReviewNotifier(notifier ReviewNotifier) ProjectServiceOption {
	return func(s *ProjectService) {
		s.notifier = notifier
	}
}

func WithClock(now func() time.Time) ProjectServiceOption {
	return func(s *ProjectService) {
		s.now = now
	}
}

func NewProjectService(db database.Database, opts ...ProjectServiceOption) *ProjectService {
	s := &ProjectService{
		logger:      log.With().Str("service", "projectService").Logger(),
		projects:    db.ProjectRepo(),
		departments: db.DepartmentRepo(),
		validate:    newValidator(),
		cache:       NewPageCacheWithClient(nil, 0),
		index:       nopIndex{},
		notifier:    nopNotifier{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new project submitted by author, as a draft or directly under review.
func (s *ProjectService) Create(ctx context.Context, author *models.User, in ProjectInput, submitForReview bool) Result {
	logger := s.logger.With().Str("operation", "create").Logger()
	if author == nil {
		return s.fail(logger, errs.NewMissingTokenError())
	}

	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return s.fail(logger, validationError(err))
	}
	departments, err := s.resolveDepartments(ctx, in.DepartmentIDs)
	if err != nil {
		return s.fail(logger, err)
	}

	project := &models.Project{
		Name:          in.Name,
		Tagline:       in.Tagline,
		Description:   in.Description,
		Image:         in.Image,
		Tags:          jsonSet(in.Tags),
		Technologies:  jsonSet(in.Technologies),
		DemoURL:       in.DemoURL,
		GithubURL:     in.GithubURL,
		ProductStatus: in.ProductStatus,
		Status:        workflow.InitialStatus(submitForReview),
		SubmittedByID: &author.ID,
		Version:       1,
		Departments:   departments,
		Media:         toMedia(in.Media),
		Documents:     toDocuments(in.Documents),
	}
	if submitForReview {
		now := s.now().UTC()
		project.SubmittedAt = &now
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return s.fail(logger, errs.NewDatabaseError("create", "project", err))
	}
	s.cache.Invalidate(ctx)

	logger.Info().
		Str("projectId", project.ID.String()).
		Str("status", string(project.Status)).
		Str("userId", author.ID.String()).
		Msg("project created")

	if submitForReview {
		return succeeded("Project submitted for review", project.ID)
	}
	return succeeded("Project saved as draft", project.ID)
}

// Update overwrites the fields present in patch. Supplied association sets replace
// the stored ones in the same transaction as the column update.
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id uuid.UUID, patch ProjectPatch) Result {
	logger := s.logger.With().Str("operation", "update").Str("projectId", id.String()).Logger()

	project, err := s.loadForWrite(ctx, id)
	if err != nil {
		return s.fail(logger, err)
	}
	if !policy.Can(actor, project, policy.ActionEdit) {
		return s.fail(logger, errs.NewActionDeniedError("edit", "project"))
	}
	if err := workflow.Editable(project, actor); err != nil {
		return s.fail(logger, err)
	}

	patch.normalize()
	if err := s.validate.Struct(patch); err != nil {
		return s.fail(logger, validationError(err))
	}

	update := database.ProjectUpdate{Columns: map[string]interface{}{}}
	cols := update.Columns
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Tagline != nil {
		cols["tagline"] = *patch.Tagline
	}
	if patch.Description != nil {
		cols["description"] = *patch.Description
	}
	if patch.Image != nil {
		cols["image"] = *patch.Image
	}
	if patch.Tags != nil {
		cols["tags"] = jsonSet(*patch.Tags)
	}
	if patch.Technologies != nil {
		cols["technologies"] = jsonSet(*patch.Technologies)
	}
	if patch.ProductStatus != nil {
		cols["product_status"] = *patch.ProductStatus
	}
	if patch.DemoURL != nil {
		cols["demo_url"] = blankToNil(patch.DemoURL)
	}
	if patch.GithubURL != nil {
		cols["github_url"] = blankToNil(patch.GithubURL)
	}

	if patch.DepartmentIDs != nil {
		ids := uniqueIDs(*patch.DepartmentIDs)
		if len(ids) == 0 && project.Status != models.StatusDraft {
			return s.fail(logger, errs.NewInvalidFieldError("departmentIds", "a submitted project needs at least one department"))
		}
		if _, err := s.resolveDepartments(ctx, ids); err != nil {
			return s.fail(logger, err)
		}
		update.Departments = &ids
	}
	if patch.Media != nil {
		media := toMedia(*patch.Media)
		update.Media = &media
	}
	if patch.Documents != nil {
		documents := toDocuments(*patch.Documents)
		update.Documents = &documents
	}

	version := project.Version
	if patch.Version != nil {
		version = *patch.Version
	}
	if err := s.projects.Update(ctx, id, version, update); err != nil {
		return s.fail(logger, errs.NewDatabaseError("update", "project", err))
	}
	s.cache.Invalidate(ctx)

	if project.Status == models.StatusApproved {
		s.reindex(ctx, logger, id)
	}

	logger.Info().Str("userId", actor.ID.String()).Msg("project updated")
	return succeeded("Project updated", id)
}

// SubmitForReview moves a draft or rejected project to the review queue.
func (s *ProjectService) SubmitForReview(ctx context.Context, actor *models.User, id uuid.UUID) Result {
	return s.transition(ctx, actor, id, workflow.EventSubmit, nil, nil)
}

// Approve publishes a project under review. Notes are optional.
func (s *ProjectService) Approve(ctx context.Context, actor *models.User, id uuid.UUID, decision ReviewDecision) Result {
	return s.review(ctx, actor, id, workflow.EventApprove, decision)
}

// Reject sends a project under review back to its submitter. Notes are required.
func (s *ProjectService) Reject(ctx context.Context, actor *models.User, id uuid.UUID, decision ReviewDecision) Result {
	return s.review(ctx, actor, id, workflow.EventReject, decision)
}

func (s *ProjectService) review(ctx context.Context, actor *models.User, id uuid.UUID, event workflow.Event, decision ReviewDecision) Result {
	if !actor.IsAdmin() {
		logger := s.logger.With().Str("operation", string(event)).Str("projectId", id.String()).Logger()
		return s.fail(logger, errs.NewInsufficientRoleError(models.RoleAdmin.String()))
	}
	if err := s.validate.Struct(decision); err != nil {
		logger := s.logger.With().Str("operation", string(event)).Str("projectId", id.String()).Logger()
		return s.fail(logger, validationError(err))
	}
	return s.transition(ctx, actor, id, event, decision.Notes, decision.Version)
}

func (s *ProjectService) transition(ctx context.Context, actor *models.User, id uuid.UUID, event workflow.Event, notes *string, expectedVersion *int) Result {
	logger := s.logger.With().Str("operation", string(event)).Str("projectId", id.String()).Logger()

	project, err := s.loadForWrite(ctx, id)
	if err != nil {
		return s.fail(logger, err)
	}
	change, err := workflow.Transition(project, actor, event, notes, s.now())
	if err != nil {
		return s.fail(logger, err)
	}

	version := project.Version
	if expectedVersion != nil {
		version = *expectedVersion
	}
	if err := s.projects.ApplyTransition(ctx, id, version, change.Columns()); err != nil {
		return s.fail(logger, errs.NewDatabaseError("update", "project", err))
	}
	change.Apply(project)
	project.Version = version + 1
	s.cache.Invalidate(ctx)

	logger.Info().
		Str("from", string(change.From)).
		Str("to", string(change.To)).
		Str("userId", actor.ID.String()).
		Msg("project status changed")

	switch event {
	case workflow.EventApprove:
		if err := s.index.IndexProduct(ctx, project); err != nil {
			logger.Error().Err(err).Msg("indexing approved product")
		}
		s.notify(ctx, logger, project)
		return succeeded("Project approved", id)
	case workflow.EventReject:
		s.notify(ctx, logger, project)
		return succeeded("Project rejected", id)
	default:
		return succeeded("Project submitted for review", id)
	}
}

// Delete removes the project for good. When confirmName is given it must equal the
// project's current name exactly.
func (s *ProjectService) Delete(ctx context.Context, actor *models.User, id uuid.UUID, confirmName *string) Result {
	logger := s.logger.With().Str("operation", "delete").Str("projectId", id.String()).Logger()

	project, err := s.loadForWrite(ctx, id)
	if err != nil {
		return s.fail(logger, err)
	}
	if !policy.Can(actor, project, policy.ActionDelete) {
		return s.fail(logger, errs.NewActionDeniedError("delete", "project"))
	}
	if confirmName != nil && *confirmName != project.Name {
		return s.fail(logger, errs.NewConfirmationMismatchError("confirmName"))
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return s.fail(logger, errs.NewDatabaseError("delete", "project", err))
	}
	s.cache.Invalidate(ctx)
	if project.Status == models.StatusApproved {
		if err := s.index.RemoveProduct(ctx, id); err != nil {
			logger.Error().Err(err).Msg("removing deleted product from search")
		}
	}

	logger.Info().Str("userId", actor.ID.String()).Msg("project deleted")
	return succeeded("Project deleted", id)
}

// GetByID returns the project or nil when it does not exist. Concurrent lookups of
// the same id share one query, so the returned project must not be modified.
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	// The query is shared, so one caller going away must not cancel it for the rest.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.reads.Do(id.String(), func() (interface{}, error) {
		return s.projects.FindByID(shared, id)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return v.(*models.Project), nil
}

// ListForUser returns the projects the user may see in the engineer portal: their
// own, their department colleagues' and those their department collaborates on.
func (s *ProjectService) ListForUser(ctx context.Context, actor *models.User) ([]models.Project, error) {
	if actor == nil {
		return nil, errs.NewMissingTokenError()
	}
	var projects []models.Project
	err := s.cache.Fetch(ctx, "projects:user:"+actor.ID.String(), &projects, func() (any, error) {
		return s.projects.ListForUser(ctx, actor)
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// ListAll returns every project for the admin review pages, optionally filtered by status.
func (s *ProjectService) ListAll(ctx context.Context, status *models.ProjectStatus) ([]models.Project, error) {
	if status != nil && !status.Valid() {
		return nil, errs.NewInvalidFieldError("status", fmt.Sprintf("unknown status %q", *status))
	}
	projects, err := s.projects.ListAll(ctx, status)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "projects", err)
	}
	return projects, nil
}

// ListProducts returns the approved projects shown on the public products page.
func (s *ProjectService) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	err := s.cache.Fetch(ctx, "products", &products, func() (any, error) {
		projects, err := s.projects.ListApproved(ctx)
		if err != nil {
			return nil, err
		}
		return newProducts(projects), nil
	})
	if err != nil {
		return nil, errs.NewDatabaseError("list", "products", err)
	}
	return products, nil
}

// GetProduct returns an approved project, or nil when the id is unknown or not
// approved.
func (s *ProjectService) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	var product *Product
	err := s.cache.Fetch(ctx, "products:"+id.String(), &product, func() (any, error) {
		p, err := s.projects.FindByID(ctx, id)
		if err != nil || p == nil || p.Status != models.StatusApproved {
			return nil, err
		}
		product := newProduct(p)
		return &product, nil
	})
	if err != nil {
		return nil, errs.NewDatabaseError("find", "product", err)
	}
	return product, nil
}

func (s *ProjectService) loadForWrite(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projects.FindForWrite(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

// resolveDepartments loads the departments for ids and fails when any is unknown.
func (s *ProjectService) resolveDepartments(ctx context.Context, ids []uuid.UUID) ([]models.Department, error) {
	ids = uniqueIDs(ids)
	departments, err := s.departments.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "departments", err)
	}
	if len(departments) != len(ids) {
		return nil, errs.NewInvalidFieldError("departmentIds", "unknown department")
	}
	return departments, nil
}

func (s *ProjectService) reindex(ctx context.Context, logger zerolog.Logger, id uuid.UUID) {
	project, err := s.projects.FindForWrite(ctx, id)
	if err != nil || project == nil {
		logger.Error().Err(err).Msg("reloading product for search")
		return
	}
	if err := s.index.IndexProduct(ctx, project); err != nil {
		logger.Error().Err(err).Msg("reindexing product")
	}
}

func (s *ProjectService) notify(ctx context.Context, logger zerolog.Logger, project *models.Project) {
	if err := s.notifier.ReviewDecided(ctx, project); err != nil {
		logger.Error().Err(err).Msg("sending review notification")
	}
}

func (s *ProjectService) fail(logger zerolog.Logger, err error) Result {
	kind := errs.KindOf(err)
	event := logger.Warn()
	if kind == errs.KindPersistenceFailed || kind == errs.KindUnknown {
		event = logger.Error()
	}
	event.Err(err).Str("kind", string(kind)).Msg("project operation failed")
	return failed(err)
}
