package plan

import (
	"fmt"
	"sort"
	"time"

	"github.com/focusplan/focusplan/core/logger"
	"github.com/focusplan/focusplan/core/model"
)

// PlanResult is the outcome of one planning pass.
type PlanResult struct {
	// Slots holds every created slot, ordered by ascending start time.
	Slots []model.Slot `json:"slots"`
	// Shortfall maps task IDs to the minutes that could not be placed
	// before the deadline or horizon. Empty when every task fit.
	Shortfall map[string]int `json:"shortfall,omitempty"`
	// Report summarizes the per-day load of the generated schedule.
	Report LoadReport `json:"report"`
	// GeneratedAt is the clock value the pass was pinned to.
	GeneratedAt time.Time `json:"generated_at"`
}

// Packer allocates work sessions for task sets using greedy
// urgency-ordered placement.
type Packer struct {
	log logger.Logger
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

// NewPacker returns a Packer logging through log. A nil log disables
// logging.
func NewPacker(log logger.Logger) *Packer {
	if log == nil {
		log = nopLogger{}
	}
	return &Packer{log: log}
}

// MakeSlots plans all non-done tasks against the current clock. See
// MakeSlotsAt for the full contract.
func (p *Packer) MakeSlots(tasks []model.Task, policy model.PolicyConfig) (PlanResult, error) {
	return p.MakeSlotsAt(tasks, policy, time.Now())
}

// MakeSlotsAt plans all non-done tasks with the clock pinned to now.
// Tasks are processed in descending urgency order and share one growing
// slot accumulator, so later placements see earlier ones as occupied.
// The output is deterministic for identical inputs and clock.
//
// Infeasible tasks receive fewer sessions than requested; the missing
// minutes are reported per task in the result's Shortfall map rather
// than as an error. Invalid input (bad policy, non-positive effort, due
// date in the past) fails fast.
func (p *Packer) MakeSlotsAt(tasks []model.Task, policy model.PolicyConfig, now time.Time) (PlanResult, error) {
	policy.SetDefaults()
	if err := policy.Validate(); err != nil {
		return PlanResult{}, fmt.Errorf("invalid policy: %w", err)
	}
	pending := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == model.StatusDone {
			continue
		}
		if err := t.ValidateForPlanning(now); err != nil {
			return PlanResult{}, err
		}
		pending = append(pending, t)
	}
	res := p.pack(sortByUrgency(pending, now), policy, now, newTimeline(nil))
	return res, nil
}

// pack runs the allocation loop over tasks already in processing order.
// The timeline may be pre-seeded with slots that count as occupied time
// but are excluded from the output.
func (p *Packer) pack(ordered []model.Task, policy model.PolicyConfig, now time.Time, tl *timeline) PlanResult {
	var slots []model.Slot
	shortfall := make(map[string]int)
	for _, t := range ordered {
		created, missing := p.packTask(t, policy, now, tl)
		slots = append(slots, created...)
		if missing > 0 {
			shortfall[t.ID] = missing
			p.log.Warnf("task %s: %d of %d minutes could not be scheduled before %s",
				t.ID, missing, t.EstimatedMinutes, t.DueAt.Format(time.RFC3339))
		}
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	if len(shortfall) == 0 {
		shortfall = nil
	}
	return PlanResult{
		Slots:       slots,
		Shortfall:   shortfall,
		Report:      buildLoadReport(slots),
		GeneratedAt: now,
	}
}

// packTask places the sessions of a single task and returns the created
// slots plus any minutes left unscheduled. Distant tasks are deferred
// toward their due date instead of front-loading the calendar.
func (p *Packer) packTask(t model.Task, policy model.PolicyConfig, now time.Time, tl *timeline) ([]model.Slot, int) {
	sessions := (t.EstimatedMinutes + policy.PomodoroMinutes - 1) / policy.PomodoroMinutes
	anchor := now
	if t.DueAt.Sub(now) > 24*time.Hour {
		anchor = t.DueAt.Add(-24 * time.Hour)
		if tomorrow := midnight(now).AddDate(0, 0, 1); tomorrow.After(anchor) {
			anchor = tomorrow
		}
	}
	deadline := t.DueAt.Add(-dueBuffer)

	remaining := t.EstimatedMinutes
	var out []model.Slot
	for i := 0; i < sessions; i++ {
		minutes := policy.PomodoroMinutes
		if remaining < minutes {
			minutes = remaining
		}
		duration := time.Duration(minutes) * time.Minute
		start, err := findNextSlot(anchor, duration, deadline, tl, policy)
		if err != nil {
			p.log.Warnf("task %s: placed %d of %d sessions: %v", t.ID, i, sessions, err)
			break
		}
		kind := model.SlotFocus
		if i == sessions-1 {
			kind = model.SlotReview
		}
		s := model.Slot{
			ID:     fmt.Sprintf("%s-%d", t.ID, i+1),
			TaskID: t.ID,
			Start:  start,
			End:    start.Add(duration),
			Kind:   kind,
		}
		out = append(out, s)
		tl.add(s)
		remaining -= minutes
		anchor = s.End.Add(time.Duration(policy.BreakMinutes) * time.Minute)
	}
	return out, remaining
}

// MakeSlots plans tasks with a default Packer and the current clock.
func MakeSlots(tasks []model.Task, policy model.PolicyConfig) (PlanResult, error) {
	return NewPacker(nil).MakeSlots(tasks, policy)
}

// MakeSlotsAt plans tasks with a default Packer and a pinned clock.
func MakeSlotsAt(tasks []model.Task, policy model.PolicyConfig, now time.Time) (PlanResult, error) {
	return NewPacker(nil).MakeSlotsAt(tasks, policy, now)
}
