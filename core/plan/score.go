package plan

import (
	"math"
	"sort"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

// Weights of the urgency blend. Deadline proximity dominates, then
// priority, then sheer effort.
const (
	deadlineWeight = 0.5
	priorityWeight = 0.3
	effortWeight   = 0.2

	// effortCapMinutes is the effort at which the effort component
	// saturates.
	effortCapMinutes = 240
)

// Score computes the urgency score used to order tasks for allocation.
// Higher scores are scheduled first. The deadline component grows as the
// due date approaches, with anything inside one hour treated the same.
func Score(t model.Task, now time.Time) float64 {
	hoursLeft := t.DueAt.Sub(now).Hours()
	if hoursLeft < 1 {
		hoursLeft = 1
	}
	deadline := 1 / (hoursLeft / 24)
	priority := float64(t.Priority) / 5
	effort := math.Min(1, float64(t.EstimatedMinutes)/effortCapMinutes)
	return deadlineWeight*deadline + priorityWeight*priority + effortWeight*effort
}

// sortByUrgency returns a copy of tasks ordered by descending score.
// The sort is stable so equal scores keep their input order; callers
// rely on this for deterministic output.
func sortByUrgency(tasks []model.Task, now time.Time) []model.Task {
	type scored struct {
		task  model.Task
		score float64
	}
	list := make([]scored, len(tasks))
	for i, t := range tasks {
		list[i] = scored{task: t, score: Score(t, now)}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})
	out := make([]model.Task, len(list))
	for i, s := range list {
		out[i] = s.task
	}
	return out
}
