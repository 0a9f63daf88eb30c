package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrStaleVersion = errors.New("stale version")

// NewInvalidTransitionError reports an event that the current status does not accept.
func NewInvalidTransitionError(event, from string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Kind:       KindInvalidTransition,
		err:        fmt.Errorf("cannot %s a project that is %s: %w", event, from, ErrInvalidTransition),
		Field:      "status",
	}
}

// NewLockedError reports an edit attempted while the project status forbids it.
func NewLockedError(status string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Kind:       KindInvalidTransition,
		err:        fmt.Errorf("project cannot be edited while %s: %w", status, ErrInvalidTransition),
		Field:      "status",
	}
}

// NewStaleVersionError reports a write based on an outdated read of entity.
func NewStaleVersionError(entity string, expected int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		Kind:       KindConflict,
		err:        fmt.Errorf("%s was modified by someone else: %w", entity, ErrStaleVersion),
		Details:    fmt.Sprintf("expected version %d", expected),
		Field:      "version",
	}
}

func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

func IsStaleVersionError(err error) bool {
	return errors.Is(err, ErrStaleVersion)
}
