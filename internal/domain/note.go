package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SummaryState represents the lifecycle of a note's AI-generated summary.
type SummaryState string

// Possible summary state values
const (
	SummaryStatePending SummaryState = "pending"
	SummaryStateReady   SummaryState = "ready"
	SummaryStateFailed  SummaryState = "failed"
)

// Common validation errors for Note
var (
	ErrEmptyNoteID           = errors.New("note ID cannot be empty")
	ErrEmptyNoteUserID       = errors.New("note user ID cannot be empty")
	ErrEmptyNoteContent      = errors.New("note content cannot be empty")
	ErrInvalidSummaryState   = errors.New("invalid summary state")
	ErrSummaryWithoutReady   = errors.New("summary can only be set when state is ready")
	ErrInvalidContentVersion = errors.New("content version must be positive")
)

// Note represents a text note owned by a user. Summary and SummaryState track
// the asynchronous AI-summary lifecycle; ContentVersion is bumped on every
// content edit and guards summary writes against stale generation results.
type Note struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Content        string       `json:"content"`
	Summary        *string      `json:"summary,omitempty"`
	SummaryState   SummaryState `json:"summary_state"`
	ContentVersion int64        `json:"content_version"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewNote creates a new Note with the given user ID and content.
// The note starts at content version 1 with a pending summary.
// Returns an error if validation fails.
func NewNote(userID uuid.UUID, content string) (*Note, error) {
	note := &Note{
		ID:             uuid.New(),
		UserID:         userID,
		Content:        content,
		SummaryState:   SummaryStatePending,
		ContentVersion: 1,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
// Returns an error if any field fails validation.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNoteID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyNoteUserID
	}

	if n.Content == "" {
		return ErrEmptyNoteContent
	}

	if !isValidSummaryState(n.SummaryState) {
		return ErrInvalidSummaryState
	}

	// A summary may only exist on a note whose generation completed.
	if n.Summary != nil && n.SummaryState != SummaryStateReady {
		return ErrSummaryWithoutReady
	}

	if n.ContentVersion < 1 {
		return ErrInvalidContentVersion
	}

	return nil
}

// ApplyEdit replaces the note content, bumps the content version and resets
// the summary lifecycle to pending. Only edit operations may advance the
// version; the summary pipeline never calls this.
func (n *Note) ApplyEdit(content string) error {
	if content == "" {
		return ErrEmptyNoteContent
	}

	n.Content = content
	n.ContentVersion++
	n.Summary = nil
	n.SummaryState = SummaryStatePending
	n.UpdatedAt = time.Now().UTC()
	return nil
}

// ResetSummary clears the summary and returns the lifecycle to pending
// without touching the content or version. Used when regeneration is
// requested for unchanged content: the new dispatch runs against the
// current version, so the staleness guard applies identically.
func (n *Note) ResetSummary() {
	n.Summary = nil
	n.SummaryState = SummaryStatePending
	n.UpdatedAt = time.Now().UTC()
}

// isValidSummaryState checks if the given state is a valid SummaryState.
func isValidSummaryState(state SummaryState) bool {
	switch state {
	case SummaryStatePending, SummaryStateReady, SummaryStateFailed:
		return true
	default:
		return false
	}
}
