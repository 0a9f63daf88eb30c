package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Request & Input-Validation Errors
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrConfirmationMismatch = errors.New("confirmation does not match")
)

func Malformed(payloadName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        fmt.Errorf("%s malformed: %w", payloadName, ErrMalformedPayload),
	}
}

func BadRequest(message string) *ApiErr {
	return NewBadRequestError(message)
}

// NewValidationError reports a rejected input with a user-facing message.
func NewValidationError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        fmt.Errorf("%s: %w", message, ErrValidationFailed),
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        ErrInvalidJSON,
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}

// NewConfirmationMismatchError is returned when a destructive action is confirmed with the wrong name.
func NewConfirmationMismatchError(field string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		Kind:       KindValidationFailed,
		err:        ErrConfirmationMismatch,
		Details:    "Confirmation name does not match the project name",
		Field:      field,
	}
}

func IsValidationError(err error) bool {
	return IsKind(err, KindValidationFailed)
}

func IsMissingRequiredFieldError(err error) bool {
	return errors.Is(err, ErrMissingRequiredField)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}

func IsConfirmationMismatchError(err error) bool {
	return errors.Is(err, ErrConfirmationMismatch)
}
