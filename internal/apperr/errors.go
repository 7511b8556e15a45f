package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrWorkspaceNotAccessible is returned when the caller has no access to a
// workspace. It is reported as a missing workspace so existence is not leaked.
var ErrWorkspaceNotAccessible = errors.New("workspace is not accessible")

// ValidationError signals malformed or unsupported user input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals a referenced entity that does not exist or is not visible.
type NotFoundError struct {
	Entity string
	ID     int64
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d is not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// NotFound builds a NotFoundError for the given entity type and id.
func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StatusCode maps an error to the HTTP status it should be reported with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidation(err):
		return http.StatusBadRequest
	case IsNotFound(err), errors.Is(err, ErrWorkspaceNotAccessible):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
