package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/domain"
)

// NoteStore defines the interface for note data persistence.
type NoteStore interface {
	// Create saves a new note to the store.
	// It handles domain validation internally.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// ListByUser retrieves a user's notes ordered by (created_at ASC, id ASC).
	// This ordering is the stable total order the daily note selector relies
	// on; changing it changes which note every user receives on a given day.
	// A non-positive limit returns all notes.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Note, error)

	// Update saves content changes to an existing note. The caller is expected
	// to have bumped ContentVersion via domain.Note.ApplyEdit.
	// Returns ErrNoteNotFound if the note does not exist.
	Update(ctx context.Context, note *domain.Note) error

	// Delete removes a note and its summary.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateSummaryIfVersion conditionally persists a summary result: the
	// write succeeds only if the stored content_version still equals
	// expectedVersion. Returns ErrStaleSummary when the version moved on
	// (the caller discards the result) and ErrNoteNotFound when the note
	// was deleted mid-flight.
	UpdateSummaryIfVersion(
		ctx context.Context,
		id uuid.UUID,
		summary *string,
		state domain.SummaryState,
		expectedVersion int64,
	) error

	// Search returns the user's notes whose content or summary matches the
	// query, case-insensitively.
	Search(ctx context.Context, userID uuid.UUID, query string) ([]*domain.Note, error)
}
