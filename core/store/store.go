package store

import (
	"context"
	"errors"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

// ErrNotFound is returned when no task matches the requested ID.
var ErrNotFound = errors.New("task not found")

// Filter narrows a task listing. Zero-valued fields are ignored.
type Filter struct {
	Status    model.Status
	DueBefore time.Time
	Course    string
}

// Matches reports whether the task satisfies every set filter field.
func (f Filter) Matches(t model.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if !f.DueBefore.IsZero() && !t.DueAt.Before(f.DueBefore) {
		return false
	}
	if f.Course != "" && t.Course != f.Course {
		return false
	}
	return true
}

// TaskStore is the persistence contract the planning service depends
// on. The planner itself never touches a store; it receives task
// snapshots and returns slots for the caller to persist.
type TaskStore interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]model.Task, error)

	// SavePlan replaces the stored plan of the given task.
	SavePlan(ctx context.Context, taskID string, p model.TaskPlan) error

	Close() error
}
