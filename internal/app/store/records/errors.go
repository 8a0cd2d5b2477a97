package records

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a field that failed normalization or validation.
// Msg is safe to show to the user.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports a write rejected by a unique index.
type ConflictError struct {
	Kind  string
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "A " + strings.ToLower(e.Kind) + " like this already exists."
	}
	return "A " + strings.ToLower(e.Kind) + " with this " + e.Field + " already exists."
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is (or wraps) a *ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
