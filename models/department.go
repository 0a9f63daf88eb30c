package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is an organizational unit of the research center. Rows are created at
// provisioning time and never changed by the review workflow.
type Department struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null"`
	Slug        string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Color       string    `json:"color" db:"color" gorm:"type:text;not null;default:''"`
	Description string    `json:"description" db:"description" gorm:"type:text;not null;default:''"`
}

func (d *Department) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
