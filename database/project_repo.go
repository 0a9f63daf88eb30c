package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectUpdate describes a content update. Columns holds the scalar columns to
// overwrite. A non-nil association pointer replaces that whole set, even when it
// points to an empty slice; a nil pointer leaves the set untouched.
type ProjectUpdate struct {
	Columns     map[string]interface{}
	Departments *[]uuid.UUID
	Media       *[]models.ProjectMedia
	Documents   *[]models.ProjectDocument
}

// withAssociations preloads everything a project view needs, in display order.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("SubmittedBy").
		Preload("Departments", func(db *gorm.DB) *gorm.DB {
			return db.Order("departments.name")
		}).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_media.position")
		}).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("project_documents.position")
		})
}

// FindByID returns a project with its associations, or nil, nil when absent.
// Reads may be served by a replica.
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindForWrite is FindByID pinned to the primary so the version it returns is current.
func (r *ProjectRepo) FindForWrite(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.find(r.db.WithContext(ctx).Clauses(dbresolver.Write), id)
}

func (r *ProjectRepo) find(db *gorm.DB, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := withAssociations(db).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create inserts the project with its department links, media and documents in one
// transaction. Media and document positions follow slice order.
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		if err := insertDepartmentLinks(tx, project.ID, project.DepartmentIDs()); err != nil {
			return err
		}
		if err := insertMedia(tx, project.ID, project.Media); err != nil {
			return err
		}
		return insertDocuments(tx, project.ID, project.Documents)
	})
}

// Update writes the columns and replaces the supplied association sets in one
// transaction, provided the stored version still equals expectedVersion.
func (r *ProjectRepo) Update(ctx context.Context, id uuid.UUID, expectedVersion int, u ProjectUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpVersion(tx, id, expectedVersion, u.Columns); err != nil {
			return err
		}

		if u.Departments != nil {
			if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDepartment{}).Error; err != nil {
				return err
			}
			if err := insertDepartmentLinks(tx, id, *u.Departments); err != nil {
				return err
			}
		}
		if u.Media != nil {
			if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMedia{}).Error; err != nil {
				return err
			}
			if err := insertMedia(tx, id, *u.Media); err != nil {
				return err
			}
		}
		if u.Documents != nil {
			if err := tx.Where("project_id = ?", id).Delete(&models.ProjectDocument{}).Error; err != nil {
				return err
			}
			if err := insertDocuments(tx, id, *u.Documents); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyTransition persists a workflow change guarded by the version check.
func (r *ProjectRepo) ApplyTransition(ctx context.Context, id uuid.UUID, expectedVersion int, columns map[string]interface{}) error {
	return bumpVersion(r.db.WithContext(ctx), id, expectedVersion, columns)
}

// Delete hard-deletes the project and every row that belongs to it.
func (r *ProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&models.ProjectDepartment{}, &models.ProjectMedia{}, &models.ProjectDocument{}} {
			if err := tx.Where("project_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&models.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("project")
		}
		return nil
	})
}

// ListForUser returns the projects the user submitted, the ones submitted by
// members of the user's department and the ones the user's department
// collaborates on, most recently updated first.
func (r *ProjectRepo) ListForUser(ctx context.Context, user *models.User) ([]models.Project, error) {
	db := r.db.WithContext(ctx)
	query := withAssociations(db).Where("submitted_by_id = ?", user.ID)
	if user.DepartmentID != nil {
		colleagues := db.Model(&models.User{}).Select("id").Where("department_id = ?", *user.DepartmentID)
		collaborations := db.Model(&models.ProjectDepartment{}).Select("project_id").Where("department_id = ?", *user.DepartmentID)
		query = query.
			Or("submitted_by_id IN (?)", colleagues).
			Or("id IN (?)", collaborations)
	}

	var projects []models.Project
	err := query.Order("updated_at DESC").Find(&projects).Error
	return projects, err
}

// ListAll returns every project, optionally restricted to one status, most
// recently updated first.
func (r *ProjectRepo) ListAll(ctx context.Context, status *models.ProjectStatus) ([]models.Project, error) {
	query := withAssociations(r.db.WithContext(ctx))
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var projects []models.Project
	err := query.Order("updated_at DESC").Find(&projects).Error
	return projects, err
}

// ListApproved returns the published products ordered by name.
func (r *ProjectRepo) ListApproved(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := withAssociations(r.db.WithContext(ctx)).
		Where("status = ?", models.StatusApproved).
		Order("name").
		Find(&projects).Error
	return projects, err
}

func bumpVersion(db *gorm.DB, id uuid.UUID, expectedVersion int, columns map[string]interface{}) error {
	values := make(map[string]interface{}, len(columns)+1)
	for k, v := range columns {
		values[k] = v
	}
	values["version"] = gorm.Expr("version + 1")

	res := db.Model(&models.Project{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewStaleVersionError("project", expectedVersion)
	}
	return nil
}

func insertDepartmentLinks(tx *gorm.DB, projectID uuid.UUID, departmentIDs []uuid.UUID) error {
	if len(departmentIDs) == 0 {
		return nil
	}
	links := make([]models.ProjectDepartment, 0, len(departmentIDs))
	seen := make(map[uuid.UUID]bool, len(departmentIDs))
	for _, id := range departmentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, models.ProjectDepartment{ProjectID: projectID, DepartmentID: id})
	}
	return tx.Create(&links).Error
}

func insertMedia(tx *gorm.DB, projectID uuid.UUID, media []models.ProjectMedia) error {
	if len(media) == 0 {
		return nil
	}
	rows := make([]models.ProjectMedia, len(media))
	for i, m := range media {
		rows[i] = models.ProjectMedia{ProjectID: projectID, URL: m.URL, Kind: m.Kind, Position: i}
	}
	return tx.Create(&rows).Error
}

func insertDocuments(tx *gorm.DB, projectID uuid.UUID, documents []models.ProjectDocument) error {
	if len(documents) == 0 {
		return nil
	}
	rows := make([]models.ProjectDocument, len(documents))
	for i, d := range documents {
		rows[i] = models.ProjectDocument{ProjectID: projectID, URL: d.URL, Title: d.Title, Kind: d.Kind, Position: i}
	}
	return tx.Create(&rows).Error
}
