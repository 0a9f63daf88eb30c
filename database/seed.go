package database

import (
	"context"

	"github.com/rpupo63/research-portal-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultDepartments are the research center's units.
var DefaultDepartments = []models.Department{
	{Name: "AI & Machine Learning", Slug: "ai-ml", Color: "#7C3AED", Description: "Applied machine learning, language models and computer vision."},
	{Name: "Cybersecurity", Slug: "cybersecurity", Color: "#DC2626", Description: "Security research, threat analysis and secure systems."},
	{Name: "Data Science", Slug: "data-science", Color: "#2563EB", Description: "Analytics, statistics and data engineering."},
	{Name: "Cloud Infrastructure", Slug: "cloud-infrastructure", Color: "#0891B2", Description: "Distributed systems, platforms and operations."},
	{Name: "IoT & Embedded Systems", Slug: "iot-embedded", Color: "#16A34A", Description: "Sensors, devices and edge computing."},
	{Name: "Software Engineering", Slug: "software-engineering", Color: "#EA580C", Description: "Product engineering, tooling and developer experience."},
}

// SeedDepartments inserts the default departments whose slug is not present yet.
// Existing rows are left as they are.
func SeedDepartments(ctx context.Context, db *gorm.DB) error {
	departments := make([]models.Department, len(DefaultDepartments))
	copy(departments, DefaultDepartments)

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(&departments).Error
}
