// Package policy decides whether a user may act on a project. Every function is a pure
// predicate over already loaded values; nothing here reads from storage.
package policy

import (
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/models"
)

type Action string

const (
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Actions lists every action in a stable order.
var Actions = []Action{ActionEdit, ActionDelete, ActionSubmit, ActionApprove, ActionReject}

// Can reports whether actor may perform action on p.
//
// Edit and delete are open to admins and to anyone related to the project. Submitting for
// review requires a relation to the project; the admin role alone does not grant it.
// Approve and reject are admin-only.
func Can(actor *models.User, p *models.Project, action Action) bool {
	if actor == nil || p == nil {
		return false
	}
	switch action {
	case ActionEdit, ActionDelete:
		return actor.IsAdmin() || Related(actor, p)
	case ActionSubmit:
		return Related(actor, p)
	case ActionApprove, ActionReject:
		return actor.IsAdmin()
	default:
		return false
	}
}

// Related reports whether actor submitted p, shares a department with its submitter, or
// belongs to one of its collaborating departments.
func Related(actor *models.User, p *models.Project) bool {
	if actor == nil || p == nil {
		return false
	}
	return IsSubmitter(actor, p) || SharesSubmitterDepartment(actor, p) || InCollaboratingDepartment(actor, p)
}

// Visible is the read rule for a user's own project list.
func Visible(actor *models.User, p *models.Project) bool {
	return Related(actor, p)
}

func IsSubmitter(actor *models.User, p *models.Project) bool {
	return p.SubmittedByID != nil && *p.SubmittedByID == actor.ID
}

func SharesSubmitterDepartment(actor *models.User, p *models.Project) bool {
	return sameDepartment(actor.DepartmentID, p.SubmitterDepartmentID())
}

func InCollaboratingDepartment(actor *models.User, p *models.Project) bool {
	return actor.DepartmentID != nil && p.HasDepartment(*actor.DepartmentID)
}

func sameDepartment(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
