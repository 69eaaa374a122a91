package domain

import "errors"

// Cross-entity errors. Entity-specific validation errors live next to their
// entity (for example ErrEmptyNoteContent in note.go).
var (
	// ErrValidation marks any entity or input validation failure; callers
	// wrap it with the specific reason.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an identifier is malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when the caller may not perform the
	// operation on the target entity.
	ErrUnauthorized = errors.New("unauthorized operation")
)
