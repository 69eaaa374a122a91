package task

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/summary"
)

// SummaryGenerationTaskFactory creates SummaryGenerationTask instances
type SummaryGenerationTaskFactory struct {
	summarizer summary.Summarizer
	notes      NoteSummaryUpdater
	logger     *slog.Logger
}

// NewSummaryGenerationTaskFactory creates a new factory for SummaryGenerationTasks
func NewSummaryGenerationTaskFactory(
	summarizer summary.Summarizer,
	notes NoteSummaryUpdater,
	logger *slog.Logger,
) *SummaryGenerationTaskFactory {
	return &SummaryGenerationTaskFactory{
		summarizer: summarizer,
		notes:      notes,
		logger:     logger.With("component", "summary_generation_task_factory"),
	}
}

// CreateTask creates a new SummaryGenerationTask for the given note snapshot.
func (f *SummaryGenerationTaskFactory) CreateTask(
	noteID uuid.UUID,
	contentSnapshot string,
	contentVersion int64,
) (Task, error) {
	t, err := NewSummaryGenerationTask(
		noteID,
		contentSnapshot,
		contentVersion,
		f.summarizer,
		f.notes,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}
