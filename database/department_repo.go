package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/models"
	"gorm.io/gorm"
)

// DepartmentRepo reads the department directory. Departments are never written by
// the review workflow.
type DepartmentRepo struct {
	db *gorm.DB
}

func NewDepartmentRepo(db *gorm.DB) *DepartmentRepo {
	return &DepartmentRepo{db}
}

// FindAll returns every department ordered by name
func (r *DepartmentRepo) FindAll(ctx context.Context) ([]models.Department, error) {
	var departments []models.Department
	err := r.db.WithContext(ctx).Order("name").Find(&departments).Error
	return departments, err
}

// FindByID returns nil, nil when the department does not exist
func (r *DepartmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).First(&department, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// FindBySlug returns nil, nil when no department has the slug
func (r *DepartmentRepo) FindBySlug(ctx context.Context, slug string) (*models.Department, error) {
	var department models.Department
	err := r.db.WithContext(ctx).First(&department, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// FindByIDs returns the departments among ids that exist, ordered by name.
// Unknown ids are silently skipped; callers compare lengths to detect them.
func (r *DepartmentRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Department, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var departments []models.Department
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&departments).Error
	return departments, err
}
