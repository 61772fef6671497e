package domain

import "errors"

var (
	// ErrValidation: a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: the referenced id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: a uniqueness rule was violated.
	ErrConflict = errors.New("conflict")
	// ErrInternal: storage or unexpected failure, safe to retry.
	ErrInternal = errors.New("internal error")
)

// IsKnown reports whether err already carries one of the taxonomy sentinels.
func IsKnown(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInternal)
}
