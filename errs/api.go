package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error so callers can branch on it without parsing messages.
type Kind string

const (
	KindUnknown           Kind = "unknown"
	KindNotFound          Kind = "not_found"
	KindUnauthorized      Kind = "unauthorized"
	KindValidationFailed  Kind = "validation_failed"
	KindPersistenceFailed Kind = "persistence_failed"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
)

// Common error sentinel values
var (
	ErrForbidden         = errors.New("operation not allowed")
	ErrBadRequest        = errors.New("malformed request")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInternal          = errors.New("internal server error")
	ErrConflict          = errors.New("resource conflict")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrCORSBlocked       = errors.New("request blocked by CORS policy")
)

type ApiErr struct {
	StatusCode int
	Kind       Kind
	err        error
	Details    string // Additional details about the error
	Field      string // Field that caused the error (for validation errors)
	Cause      error  // The underlying cause of the error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{
		StatusCode: statusCode,
		Kind:       kindForStatus(statusCode),
		err:        errors.New(message),
	}
}

// implements error interface. this allows us to pass an instance of ApiErr as an argument of type `error`
func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// Message returns the error text without details, suitable for end users.
func (e *ApiErr) Message() string {
	return e.err.Error()
}

// GetFullError returns a recursive error message including all causes
func (e *ApiErr) GetFullError() string {
	msg := e.Error()
	if e.Cause != nil {
		var apiErr *ApiErr
		if errors.As(e.Cause, &apiErr) {
			msg = fmt.Sprintf("%s -> %s", msg, apiErr.GetFullError())
		} else {
			msg = fmt.Sprintf("%s -> %s", msg, e.Cause.Error())
		}
	}
	return msg
}

// this function allows us to do the following:
// err := &ApiErr{StatusCode: ..., err: someSentinelError}
// errors.Is(err, someSentinelError) ==> evaluates to true
func (e *ApiErr) Unwrap() error {
	return e.err
}

// KindOf returns the Kind carried by err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var apiErr *ApiErr
	if errors.As(err, &apiErr) && apiErr.Kind != "" {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func kindForStatus(statusCode int) Kind {
	switch statusCode {
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidationFailed
	case http.StatusConflict:
		return KindConflict
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return KindPersistenceFailed
	default:
		return KindUnknown
	}
}

// Common error constructors with appropriate HTTP status codes
func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, Kind: KindNotFound, err: fmt.Errorf("%s: %w", message, ErrNotFound)}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, Kind: KindUnauthorized, err: fmt.Errorf("%s: %w", message, ErrForbidden)}
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, Kind: KindValidationFailed, err: fmt.Errorf("%s: %w", message, ErrBadRequest)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, Kind: KindUnauthorized, err: fmt.Errorf("%s: %w", message, ErrUnauthorized)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, Kind: KindPersistenceFailed, err: fmt.Errorf("%s: %w", message, ErrInternal)}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, Kind: KindConflict, err: fmt.Errorf("%s: %w", message, ErrConflict)}
}

func NewInternalErrorWithCause(message string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		Kind:       KindPersistenceFailed,
		err:        fmt.Errorf("%s: %w", message, ErrInternal),
		Cause:      cause,
	}
}

func NewCORSError(origin string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		Kind:       KindUnauthorized,
		err:        ErrCORSBlocked,
		Details:    fmt.Sprintf("Origin '%s' is not allowed by CORS policy", origin),
	}
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInternal(err error) bool {
	return errors.Is(err, ErrInternal)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
