// Package workflow holds the review state machine for projects:
//
//	DRAFT ──submit──▶ UNDER_REVIEW ──approve──▶ APPROVED
//	                   ▲     │
//	            submit │     └──reject──▶ REJECTED
//	                   └──────────────────────┘
//
// Transition computes the outcome of an event without touching storage so the
// same rules back the service layer and the tests.
package workflow

import (
	"strings"
	"time"

	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rpupo63/research-portal-backend/policy"
)

type Event string

const (
	EventSubmit  Event = "submit"
	EventApprove Event = "approve"
	EventReject  Event = "reject"
)

var transitions = map[models.ProjectStatus]map[Event]models.ProjectStatus{
	models.StatusDraft: {
		EventSubmit: models.StatusUnderReview,
	},
	models.StatusRejected: {
		EventSubmit: models.StatusUnderReview,
	},
	models.StatusUnderReview: {
		EventApprove: models.StatusApproved,
		EventReject:  models.StatusRejected,
	},
	models.StatusApproved: {},
}

var eventActions = map[Event]policy.Action{
	EventSubmit:  policy.ActionSubmit,
	EventApprove: policy.ActionApprove,
	EventReject:  policy.ActionReject,
}

// Change is the outcome of a legal transition.
type Change struct {
	Event       Event
	From        models.ProjectStatus
	To          models.ProjectStatus
	SubmittedAt *time.Time
	ReviewedAt  *time.Time
	// ReviewNotes is only meaningful when SetsReviewNotes is true; nil clears the notes.
	ReviewNotes     *string
	SetsReviewNotes bool
}

// InitialStatus is the status of a freshly created project.
func InitialStatus(submitForReview bool) models.ProjectStatus {
	if submitForReview {
		return models.StatusUnderReview
	}
	return models.StatusDraft
}

// Allowed lists the events the status accepts.
func Allowed(status models.ProjectStatus) []Event {
	var events []Event
	for _, e := range []Event{EventSubmit, EventApprove, EventReject} {
		if _, ok := transitions[status][e]; ok {
			events = append(events, e)
		}
	}
	return events
}

// Transition validates event against the current state of p and the acting user and
// returns the resulting change. p is not modified.
func Transition(p *models.Project, actor *models.User, event Event, notes *string, now time.Time) (Change, error) {
	action, ok := eventActions[event]
	if !ok {
		return Change{}, errs.NewInvalidTransitionError(string(event), statusLabel(p.Status))
	}
	if !policy.Can(actor, p, action) {
		return Change{}, errs.NewActionDeniedError(string(event), "project")
	}

	to, ok := transitions[p.Status][event]
	if !ok {
		return Change{}, errs.NewInvalidTransitionError(string(event), statusLabel(p.Status))
	}

	change := Change{Event: event, From: p.Status, To: to}
	at := now.UTC()
	switch event {
	case EventSubmit:
		if len(p.Departments) == 0 {
			return Change{}, errs.NewInvalidFieldError("departmentIds", "at least one department is required before submitting for review")
		}
		change.SubmittedAt = &at
	case EventApprove:
		change.ReviewedAt = &at
		change.ReviewNotes = cleanNotes(notes)
		change.SetsReviewNotes = true
	case EventReject:
		cleaned := cleanNotes(notes)
		if cleaned == nil {
			return Change{}, errs.NewMissingRequiredFieldError("notes")
		}
		change.ReviewedAt = &at
		change.ReviewNotes = cleaned
		change.SetsReviewNotes = true
	}
	return change, nil
}

// Apply copies the change onto p.
func (c Change) Apply(p *models.Project) {
	p.Status = c.To
	if c.SubmittedAt != nil {
		p.SubmittedAt = c.SubmittedAt
	}
	if c.ReviewedAt != nil {
		p.ReviewedAt = c.ReviewedAt
	}
	if c.SetsReviewNotes {
		p.ReviewNotes = c.ReviewNotes
	}
}

// Columns returns the column updates that persist the change.
func (c Change) Columns() map[string]interface{} {
	cols := map[string]interface{}{"status": c.To}
	if c.SubmittedAt != nil {
		cols["submitted_at"] = *c.SubmittedAt
	}
	if c.ReviewedAt != nil {
		cols["reviewed_at"] = *c.ReviewedAt
	}
	if c.SetsReviewNotes {
		cols["review_notes"] = c.ReviewNotes
	}
	return cols
}

// Editable returns nil when actor may change the content of p in its current status.
// Admins may edit in any status; everyone else only while the project is a draft or
// was rejected.
func Editable(p *models.Project, actor *models.User) error {
	if actor.IsAdmin() {
		return nil
	}
	switch p.Status {
	case models.StatusDraft, models.StatusRejected:
		return nil
	default:
		return errs.NewLockedError(statusLabel(p.Status))
	}
}

func cleanNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func statusLabel(s models.ProjectStatus) string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}
