package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/noteflow-api/internal/events"
)

// SummaryRequestPayload is the event payload emitted when a note needs a
// summary. Content and version are snapshotted at emit time so the task does
// not re-read the note before generating.
type SummaryRequestPayload struct {
	NoteID         string `json:"note_id"`
	Content        string `json:"content"`
	ContentVersion int64  `json:"content_version"`
}

// TaskFactoryEventHandler implements events.EventHandler: it turns summary
// request events into tasks and submits them to the runner.
type TaskFactoryEventHandler struct {
	factory *SummaryGenerationTaskFactory
	runner  *Runner
	logger  *slog.Logger
}

// NewTaskFactoryEventHandler creates a new event handler that uses the given
// task factory to create tasks, and submits them to the provided runner.
func NewTaskFactoryEventHandler(
	factory *SummaryGenerationTaskFactory,
	runner *Runner,
	logger *slog.Logger,
) *TaskFactoryEventHandler {
	return &TaskFactoryEventHandler{
		factory: factory,
		runner:  runner,
		logger:  logger.With("component", "task_factory_event_handler"),
	}
}

// HandleEvent processes a task request event by creating and submitting
// the corresponding task.
func (h *TaskFactoryEventHandler) HandleEvent(
	ctx context.Context,
	event *events.TaskRequestEvent,
) error {
	if event.Type != TaskTypeSummaryGeneration {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type, "event_id", event.ID)
		return nil
	}

	var payload SummaryRequestPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload", "error", err, "event_id", event.ID)
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	noteID, err := uuid.Parse(payload.NoteID)
	if err != nil {
		h.logger.Error("invalid note ID",
			"error", err, "note_id", payload.NoteID, "event_id", event.ID)
		return fmt.Errorf("invalid note ID: %w", err)
	}

	t, err := h.factory.CreateTask(noteID, payload.Content, payload.ContentVersion)
	if err != nil {
		h.logger.Error("failed to create task",
			"error", err, "note_id", noteID, "event_id", event.ID)
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit task",
			"error", err, "task_id", t.ID(), "note_id", noteID, "event_id", event.ID)
		return fmt.Errorf("failed to submit task: %w", err)
	}

	h.logger.Info("summary task submitted",
		"task_id", t.ID(), "note_id", noteID, "content_version", payload.ContentVersion)
	return nil
}

var _ events.EventHandler = (*TaskFactoryEventHandler)(nil)
