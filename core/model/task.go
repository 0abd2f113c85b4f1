package model

import (
	"fmt"
	"time"
)

// Status describes the lifecycle state of a task.
type Status string

const (
	StatusTodo    Status = "todo"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
	StatusBlocked Status = "blocked"
)

// Valid reports whether s is one of the known task statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Task represents a unit of work to be scheduled. Tasks are owned by the
// task store; the planner treats them as read-only input except that it
// derives an adjusted effort estimate during replanning.
type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Course           string    `json:"course,omitempty"`
	Type             string    `json:"type,omitempty"`
	DueAt            time.Time `json:"due_at"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Priority         int       `json:"priority"` // 1 (low) to 5 (high)
	Status           Status    `json:"status"`

	// Plan holds the most recent schedule generated for this task.
	// Regenerating a plan replaces it wholesale.
	Plan *TaskPlan `json:"plan,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Validate checks that the task fields are sound for storage.
func (t Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task %s: title must not be empty", t.ID)
	}
	if t.EstimatedMinutes <= 0 {
		return fmt.Errorf("task %s: estimated minutes must be positive, got %d", t.ID, t.EstimatedMinutes)
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("task %s: priority must be in [1,5], got %d", t.ID, t.Priority)
	}
	if t.Status != "" && !t.Status.Valid() {
		return fmt.Errorf("task %s: unknown status %q", t.ID, t.Status)
	}
	return nil
}

// ValidateForPlanning checks the constraints the planner relies on. A due
// date already behind now cannot anchor any feasible slot, so it is
// rejected outright instead of silently producing an empty schedule.
func (t Task) ValidateForPlanning(now time.Time) error {
	if t.EstimatedMinutes <= 0 {
		return fmt.Errorf("task %s: estimated minutes must be positive, got %d", t.ID, t.EstimatedMinutes)
	}
	if t.DueAt.IsZero() {
		return fmt.Errorf("task %s: due date is not set", t.ID)
	}
	if !t.DueAt.After(now) {
		return fmt.Errorf("task %s: due date %s is in the past", t.ID, t.DueAt.Format(time.RFC3339))
	}
	return nil
}
