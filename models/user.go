package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a bit set of the portal roles a user holds.
type Role uint8

const (
	RoleEngineer Role = 1 << iota
	RoleAdmin
)

// Has reports whether every bit of other is set in r.
func (r Role) Has(other Role) bool {
	return other != 0 && r&other == other
}

func (r Role) String() string {
	var names []string
	if r.Has(RoleAdmin) {
		names = append(names, "ADMIN")
	}
	if r.Has(RoleEngineer) {
		names = append(names, "ENGINEER")
	}
	return strings.Join(names, ",")
}

// ParseRoles converts role names as issued by the auth provider into a Role set.
// Unknown names are ignored.
func ParseRoles(names []string) Role {
	var r Role
	for _, name := range names {
		switch strings.ToUpper(strings.TrimSpace(name)) {
		case "ADMIN":
			r |= RoleAdmin
		case "ENGINEER":
			r |= RoleEngineer
		}
	}
	return r
}

// User is owned by the auth subsystem; the workflow only reads it.
type User struct {
	ID           uuid.UUID   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Email        string      `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Name         string      `json:"name" db:"name" gorm:"type:text;not null;default:''"`
	DepartmentID *uuid.UUID  `json:"departmentId,omitempty" db:"department_id" gorm:"type:uuid;index"`
	Roles        Role        `json:"roles" db:"roles" gorm:"type:integer;not null;default:0"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID;references:ID"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Roles.Has(RoleAdmin)
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
