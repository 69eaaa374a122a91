package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/platform/logger"
	"github.com/phrazzld/noteflow-api/internal/store"
)

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the NoteStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Create implements store.NoteStore.Create
// It saves a new note to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the user ID doesn't exist (foreign key violation).
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		INSERT INTO notes (id, user_id, content, summary, summary_state, content_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		note.ID,
		note.UserID,
		note.Content,
		note.Summary,
		note.SummaryState,
		note.ContentVersion,
		note.CreatedAt,
		note.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during note creation",
				slog.String("error", err.Error()),
				slog.String("note_id", note.ID.String()),
				slog.String("user_id", note.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, note.UserID)
		}

		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()),
			slog.String("user_id", note.UserID.String()))
		return err
	}

	log.Info("note created successfully",
		slog.String("note_id", note.ID.String()),
		slog.String("user_id", note.UserID.String()))
	return nil
}

// GetByID implements store.NoteStore.GetByID
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content, summary, summary_state, content_version, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found", slog.String("note_id", id.String()))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note by ID",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, err
	}

	return note, nil
}

// ListByUser implements store.NoteStore.ListByUser
// Notes are returned ordered by (created_at ASC, id ASC); the daily note
// selector depends on this order being stable across runs.
// A non-positive limit returns all of the user's notes.
func (s *PostgresNoteStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content, summary, summary_state, content_version, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	args := []interface{}{userID}

	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query notes by user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return collectNotes(rows)
}

// Update implements store.NoteStore.Update
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *PostgresNoteStore) Update(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during update",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		UPDATE notes
		SET content = $1, summary = $2, summary_state = $3, content_version = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		note.Content,
		note.Summary,
		note.SummaryState,
		note.ContentVersion,
		note.UpdatedAt,
		note.ID,
	)
	if err != nil {
		log.Error("failed to update note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}
	if rowsAffected == 0 {
		log.Debug("note not found for update",
			slog.String("note_id", note.ID.String()))
		return store.ErrNoteNotFound
	}

	log.Info("note updated successfully",
		slog.String("note_id", note.ID.String()),
		slog.Int64("content_version", note.ContentVersion))
	return nil
}

// Delete implements store.NoteStore.Delete
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *PostgresNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		log.Debug("note not found for delete", slog.String("note_id", id.String()))
		return store.ErrNoteNotFound
	}

	log.Info("note deleted successfully", slog.String("note_id", id.String()))
	return nil
}

// UpdateSummaryIfVersion implements store.NoteStore.UpdateSummaryIfVersion
// The summary write is guarded by content_version: a concurrent edit bumps
// the version and the stale result is rejected with store.ErrStaleSummary.
// When zero rows match, a follow-up existence check distinguishes a stale
// version from a note deleted mid-flight.
func (s *PostgresNoteStore) UpdateSummaryIfVersion(
	ctx context.Context,
	id uuid.UUID,
	summary *string,
	state domain.SummaryState,
	expectedVersion int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notes
		SET summary = $1, summary_state = $2, updated_at = $3
		WHERE id = $4 AND content_version = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		summary,
		state,
		time.Now().UTC(),
		id,
		expectedVersion,
	)
	if err != nil {
		log.Error("failed to update note summary",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()),
			slog.Int64("expected_version", expectedVersion))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		log.Info("note summary updated",
			slog.String("note_id", id.String()),
			slog.String("summary_state", string(state)),
			slog.Int64("content_version", expectedVersion))
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check note existence",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return err
	}

	if !exists {
		return store.ErrNoteNotFound
	}
	return store.ErrStaleSummary
}

// Search implements store.NoteStore.Search
// Matching is case-insensitive over both content and summary.
func (s *PostgresNoteStore) Search(
	ctx context.Context,
	userID uuid.UUID,
	query string,
) ([]*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sqlQuery := `
		SELECT id, user_id, content, summary, summary_state, content_version, created_at, updated_at
		FROM notes
		WHERE user_id = $1
		  AND (content ILIKE '%' || $2 || '%' OR summary ILIKE '%' || $2 || '%')
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, sqlQuery, userID, query)
	if err != nil {
		log.Error("failed to search notes",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer closeRows(rows, log)

	return collectNotes(rows)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var state string

	err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Content,
		&note.Summary,
		&state,
		&note.ContentVersion,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	note.SummaryState = domain.SummaryState(state)
	return &note, nil
}

func collectNotes(rows *sql.Rows) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
