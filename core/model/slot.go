package model

import "time"

// SlotKind distinguishes the role of a scheduled interval.
type SlotKind string

const (
	// SlotFocus is a regular pomodoro-length work session.
	SlotFocus SlotKind = "focus"
	// SlotReview marks the final session generated for a task.
	SlotReview SlotKind = "review"
	// SlotBuffer is reserved slack inserted by the caller, never by the
	// planner itself.
	SlotBuffer SlotKind = "buffer"
)

// Slot is a single scheduled work interval for one task. Slots are value
// objects created fresh on every planning pass; a later pass supersedes
// them rather than mutating them.
type Slot struct {
	ID     string    `json:"id"`
	TaskID string    `json:"task_id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Kind   SlotKind  `json:"kind"`

	// Done is set by the caller after execution, not by the planner.
	Done bool `json:"done,omitempty"`
}

// Duration returns the slot length.
func (s Slot) Duration() time.Duration { return s.End.Sub(s.Start) }

// Minutes returns the slot length in whole minutes.
func (s Slot) Minutes() int { return int(s.Duration().Minutes()) }

// Overlaps reports whether the two half-open intervals [Start,End)
// intersect.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && s.End.After(o.Start)
}

// DayKey returns the calendar day of the slot start in YYYY-MM-DD form,
// using the slot's own location.
func (s Slot) DayKey() string { return s.Start.Format("2006-01-02") }

// TaskPlan is the schedule generated for one task: its slots ordered by
// ascending start time, the policy used to build them and the generation
// timestamp.
type TaskPlan struct {
	Slots         []Slot       `json:"slots"`
	Policy        PolicyConfig `json:"policy"`
	LastPlannedAt time.Time    `json:"last_planned_at"`
}

// WeekDay is one bucket of a seven-day calendar view.
type WeekDay struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Slots []Slot `json:"slots"`
}
