package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Authentication & Authorization Errors
var (
	ErrMissingToken     = errors.New("missing access token")
	ErrInvalidToken     = errors.New("invalid access token")
	ErrInsufficientRole = errors.New("insufficient role")
	ErrActionDenied     = errors.New("action not permitted")
)

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindUnauthorized,
		err:        ErrMissingToken,
		Details:    "Missing access token",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		Kind:       KindUnauthorized,
		err:        ErrInvalidToken,
		Details:    "Invalid access token",
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewInsufficientRoleError(requiredRole string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		Kind:       KindUnauthorized,
		err:        ErrInsufficientRole,
		Details:    fmt.Sprintf("Insufficient role. Required: %s", requiredRole),
		Field:      "authorization",
	}
}

// NewActionDeniedError reports that the acting user may not perform action on entity.
func NewActionDeniedError(action, entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		Kind:       KindUnauthorized,
		err:        fmt.Errorf("you are not allowed to %s this %s: %w", action, entity, ErrActionDenied),
	}
}

func IsMissingTokenError(err error) bool {
	return errors.Is(err, ErrMissingToken)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsInsufficientRoleError(err error) bool {
	return errors.Is(err, ErrInsufficientRole)
}

func IsActionDeniedError(err error) bool {
	return errors.Is(err, ErrActionDenied)
}
