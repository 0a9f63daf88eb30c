package database

import (
	"context"

	"github.com/rpupo63/research-portal-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	db             *gorm.DB
	departmentRepo *DepartmentRepo
	userRepo       *UserRepo
	projectRepo    *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:             db,
		departmentRepo: NewDepartmentRepo(db),
		userRepo:       NewUserRepo(db),
		projectRepo:    NewProjectRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) DepartmentRepo() *DepartmentRepo {
	return d.departmentRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

// Migrate creates or updates the workflow tables.
func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Ping checks that the primary connection is usable.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
