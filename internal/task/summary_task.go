package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/domain"
	"github.com/phrazzld/noteflow-api/internal/store"
	"github.com/phrazzld/noteflow-api/internal/summary"
)

// Common errors
var (
	ErrNilSummarizer  = errors.New("summarizer cannot be nil")
	ErrNilNoteUpdater = errors.New("note updater cannot be nil")
	ErrNilLogger      = errors.New("logger cannot be nil")
	ErrEmptyNoteID    = errors.New("note ID cannot be empty")
	ErrEmptySnapshot  = errors.New("content snapshot cannot be empty")
)

// NoteSummaryUpdater is the narrow persistence surface the summary task
// needs: the version-conditioned summary write.
type NoteSummaryUpdater interface {
	UpdateSummaryIfVersion(
		ctx context.Context,
		id uuid.UUID,
		summary *string,
		state domain.SummaryState,
		expectedVersion int64,
	) error
}

// SummaryGenerationTask implements the Task interface for generating an AI
// summary for one note. It carries a snapshot of the note content and the
// content version captured at dispatch time; the version guards the final
// write so a slow, stale generation can never clobber a summary belonging to
// a newer edit.
type SummaryGenerationTask struct {
	id              uuid.UUID
	noteID          uuid.UUID
	contentSnapshot string
	contentVersion  int64
	summarizer      summary.Summarizer
	notes           NoteSummaryUpdater
	logger          *slog.Logger
	status          TaskStatus
}

// NewSummaryGenerationTask creates a new summary generation task for the
// given note, content snapshot and the content version observed at dispatch.
func NewSummaryGenerationTask(
	noteID uuid.UUID,
	contentSnapshot string,
	contentVersion int64,
	summarizer summary.Summarizer,
	notes NoteSummaryUpdater,
	logger *slog.Logger,
) (*SummaryGenerationTask, error) {
	if summarizer == nil {
		return nil, ErrNilSummarizer
	}
	if notes == nil {
		return nil, ErrNilNoteUpdater
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if noteID == uuid.Nil {
		return nil, ErrEmptyNoteID
	}
	if contentSnapshot == "" {
		return nil, ErrEmptySnapshot
	}

	return &SummaryGenerationTask{
		id:              uuid.New(),
		noteID:          noteID,
		contentSnapshot: contentSnapshot,
		contentVersion:  contentVersion,
		summarizer:      summarizer,
		notes:           notes,
		logger: logger.With(
			"task_type", TaskTypeSummaryGeneration,
			"note_id", noteID,
			"content_version", contentVersion,
		),
		status: TaskStatusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *SummaryGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *SummaryGenerationTask) Type() string {
	return TaskTypeSummaryGeneration
}

// Status returns the current task status
func (t *SummaryGenerationTask) Status() TaskStatus {
	return t.status
}

// Execute runs the summary generation attempt. Outcomes:
//
//   - provider success, version still current: summary persisted as ready
//   - provider success, version moved on: result discarded silently (logged)
//   - every provider failed: note marked failed, also version-conditioned
//   - note deleted mid-flight: no-op
//
// An exhausted fallback is a handled outcome, not a task failure; the poll
// path surfaces the failed state to the client.
func (t *SummaryGenerationTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	t.logger.Info("starting summary generation")

	if err := ctx.Err(); err != nil {
		t.status = TaskStatusFailed
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	text, err := t.summarizer.Summarize(ctx, t.contentSnapshot)
	if err != nil {
		if summary.IsExhausted(err) {
			t.logger.Warn("all providers failed, marking note summary as failed", "error", err)
			t.markFailed(ctx)
			t.status = TaskStatusCompleted
			return nil
		}

		t.status = TaskStatusFailed
		return fmt.Errorf("failed to generate summary: %w", err)
	}

	err = t.notes.UpdateSummaryIfVersion(ctx, t.noteID, &text, domain.SummaryStateReady, t.contentVersion)
	switch {
	case err == nil:
		t.logger.Info("summary persisted", "summary_length", len(text))
	case errors.Is(err, store.ErrStaleSummary):
		// Not an error condition: the note was edited while this attempt was
		// in flight and the newer dispatch owns the summary now.
		t.logger.Info("stale summary result discarded")
	case errors.Is(err, store.ErrNoteNotFound):
		t.logger.Info("note deleted before summary could be persisted")
	default:
		t.status = TaskStatusFailed
		return fmt.Errorf("failed to persist summary: %w", err)
	}

	t.status = TaskStatusCompleted
	return nil
}

// markFailed records the failed state for this dispatch's version. The write
// is version-conditioned like the success path, so an older exhausted attempt
// never overwrites state belonging to a newer edit.
func (t *SummaryGenerationTask) markFailed(ctx context.Context) {
	err := t.notes.UpdateSummaryIfVersion(ctx, t.noteID, nil, domain.SummaryStateFailed, t.contentVersion)
	if err != nil && !errors.Is(err, store.ErrStaleSummary) && !errors.Is(err, store.ErrNoteNotFound) {
		t.logger.Error("failed to mark note summary as failed", "error", err)
	}
}
