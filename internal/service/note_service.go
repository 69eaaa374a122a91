package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/events"
	"github.com/phrazzld/noteflow-api/internal/store"
	"github.com/phrazzld/noteflow-api/internal/task"
)

// NoteService provides note-related operations. Creating a note or editing
// its content dispatches asynchronous summary generation; the dispatch never
// blocks or fails the calling request.
type NoteService interface {
	// CreateNote persists a new note with a pending summary and dispatches
	// summary generation.
	CreateNote(ctx context.Context, userID uuid.UUID, content string) (*domain.Note, error)

	// GetNote retrieves a note owned by the given user. The returned note
	// carries Summary and SummaryState, which is what clients poll after
	// creating or editing a note.
	GetNote(ctx context.Context, userID, noteID uuid.UUID) (*domain.Note, error)

	// ListNotes returns the user's notes in creation order.
	ListNotes(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Note, error)

	// UpdateNote applies a content edit and/or an explicit summary
	// regeneration request. A content change bumps the note's version and
	// always regenerates; regenerate alone re-dispatches against the
	// current content and version.
	UpdateNote(
		ctx context.Context,
		userID, noteID uuid.UUID,
		content string,
		regenerate bool,
	) (*domain.Note, error)

	// DeleteNote removes a note owned by the given user.
	DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error

	// SearchNotes returns the user's notes matching the query in content
	// or summary.
	SearchNotes(ctx context.Context, userID uuid.UUID, query string) ([]*domain.Note, error)
}

// noteServiceImpl implements the NoteService interface
type noteServiceImpl struct {
	notes   store.NoteStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewNoteService creates a new NoteService.
// It returns an error if any of the required dependencies are nil.
func NewNoteService(
	notes store.NoteStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (NoteService, error) {
	if notes == nil {
		return nil, errors.New("note store cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("event emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		notes:   notes,
		emitter: emitter,
		logger:  logger.With("component", "note_service"),
	}, nil
}

// CreateNote persists the note first, then emits the generation event.
func (s *noteServiceImpl) CreateNote(
	ctx context.Context,
	userID uuid.UUID,
	content string,
) (*domain.Note, error) {
	note, err := domain.NewNote(userID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.notes.Create(ctx, note); err != nil {
		s.logger.Error("failed to create note", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.logger.Info("note created with pending summary",
		"note_id", note.ID, "user_id", userID)

	s.dispatchSummary(ctx, note)
	return note, nil
}

func (s *noteServiceImpl) GetNote(
	ctx context.Context,
	userID, noteID uuid.UUID,
) (*domain.Note, error) {
	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("retrieved note",
		"note_id", noteID, "summary_state", note.SummaryState)
	return note, nil
}

func (s *noteServiceImpl) ListNotes(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Note, error) {
	notes, err := s.notes.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notes", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote applies the edit and dispatches regeneration when warranted.
func (s *noteServiceImpl) UpdateNote(
	ctx context.Context,
	userID, noteID uuid.UUID,
	content string,
	regenerate bool,
) (*domain.Note, error) {
	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	contentChanged := content != "" && content != note.Content
	switch {
	case contentChanged:
		if err := note.ApplyEdit(content); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
	case regenerate:
		note.ResetSummary()
	default:
		return note, nil
	}

	if err := s.notes.Update(ctx, note); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.logger.Error("failed to update note", "error", err, "note_id", noteID)
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	s.logger.Info("note updated",
		"note_id", note.ID,
		"content_version", note.ContentVersion,
		"content_changed", contentChanged,
		"regenerate", regenerate)

	s.dispatchSummary(ctx, note)
	return note, nil
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		s.logger.Error("failed to delete note", "error", err, "note_id", noteID)
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.logger.Info("note deleted", "note_id", noteID, "user_id", userID)
	return nil
}

func (s *noteServiceImpl) SearchNotes(
	ctx context.Context,
	userID uuid.UUID,
	query string,
) ([]*domain.Note, error) {
	notes, err := s.notes.Search(ctx, userID, query)
	if err != nil {
		s.logger.Error("failed to search notes", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, nil
}

// ownedNote loads a note and enforces ownership. Notes belonging to another
// user are reported as ErrNotOwned rather than leaking their existence as a
// different error shape.
func (s *noteServiceImpl) ownedNote(
	ctx context.Context,
	userID, noteID uuid.UUID,
) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.logger.Error("failed to retrieve note", "error", err, "note_id", noteID)
		return nil, fmt.Errorf("failed to retrieve note: %w", err)
	}
	if note.UserID != userID {
		return nil, ErrNotOwned
	}
	return note, nil
}

// dispatchSummary emits the fire-and-forget generation event with the
// content and version snapshotted now. A dispatch failure is logged and
// swallowed: the note is already persisted and remains usable without a
// summary, and background failures never propagate to the request path.
func (s *noteServiceImpl) dispatchSummary(ctx context.Context, note *domain.Note) {
	event, err := events.NewTaskRequestEvent(task.TaskTypeSummaryGeneration, task.SummaryRequestPayload{
		NoteID:         note.ID.String(),
		Content:        note.Content,
		ContentVersion: note.ContentVersion,
	})
	if err != nil {
		s.logger.Error("failed to create summary generation event",
			"error", err, "note_id", note.ID)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to dispatch summary generation",
			"error", err, "note_id", note.ID, "event_id", event.ID)
		return
	}

	s.logger.Debug("summary generation dispatched",
		"note_id", note.ID,
		"content_version", note.ContentVersion,
		"event_id", event.ID)
}
