package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/models"
	"gorm.io/gorm"
)

// UserRepo reads users provisioned by the auth subsystem.
type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns the user with their department, or nil, nil when absent
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Department").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns nil, nil when no user has the email
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Department").First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a user. Used when provisioning accounts.
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Department").Create(user).Error
}
