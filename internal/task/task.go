package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus tracks where a task is in its lifecycle.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

const (
	// TaskTypeSummaryGeneration identifies note summarization jobs.
	TaskTypeSummaryGeneration = "summary_generation"
)

// Task is one unit of background work the runner can execute.
type Task interface {
	ID() uuid.UUID
	Type() string
	Status() TaskStatus

	// Execute runs the work. A returned error marks the task failed; it is
	// logged, never propagated to the request that triggered the task.
	Execute(ctx context.Context) error
}
