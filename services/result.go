package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/errs"
)

// Result is what every mutating operation of ProjectService returns. Message is
// meant for the person who triggered the operation; Err keeps the typed error for
// callers that need to branch on errs.KindOf.
type Result struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	ProjectID *uuid.UUID `json:"projectId,omitempty"`
	Err       error      `json:"-"`
}

func succeeded(message string, id uuid.UUID) Result {
	return Result{Success: true, Message: message, ProjectID: &id}
}

func failed(err error) Result {
	message := "An unexpected error occurred"
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		message = apiErr.Error()
	}
	return Result{Message: message, Err: err}
}

// Kind is the error kind of a failed result, empty on success.
func (r Result) Kind() errs.Kind {
	return errs.KindOf(r.Err)
}
