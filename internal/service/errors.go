package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for unknown note IDs, videos and note files.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a note already exists at the target path.
	ErrConflict = errors.New("conflict")
	// ErrExternalService is returned when the YouTube API fails.
	ErrExternalService = errors.New("external service error")
)

// ValidationError reports a rejected request or settings field.
// Field is the JSON name of the field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrInvalidInput) true for validation errors.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
