package plan

import (
	"fmt"
	"sort"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

// minRemainingMinutes floors the adjusted effort of a partially
// completed task so replanning always leaves at least one short session.
const minRemainingMinutes = 15

// ReplanOptions tunes the incremental replanning pass.
type ReplanOptions struct {
	// GlobalConflictCheck seeds the conflict search with the untouched
	// slots, so regenerated sessions cannot overlap tasks that kept
	// their schedule. Off by default: historically each replan packed
	// affected tasks independently.
	GlobalConflictCheck bool
}

// Replan recomputes the schedule of every task that missed at least one
// slot. See ReplanWithOptions for the full contract.
func (p *Packer) Replan(missed, remaining []model.Slot, tasks []model.Task, policy model.PolicyConfig) (PlanResult, error) {
	return p.ReplanAt(missed, remaining, tasks, policy, time.Now(), ReplanOptions{})
}

// ReplanAt replans with a pinned clock. Tasks with missed slots are
// affected: their remaining slots are discarded and their outstanding
// effort is repacked, with completed missed work subtracted from the
// estimate first. Remaining slots of unaffected tasks pass through
// unchanged and are merged, re-sorted by start, with the regenerated
// ones. With no missed slots the input remaining slots come back as-is.
func (p *Packer) ReplanAt(missed, remaining []model.Slot, tasks []model.Task, policy model.PolicyConfig, now time.Time, opts ReplanOptions) (PlanResult, error) {
	policy.SetDefaults()
	if err := policy.Validate(); err != nil {
		return PlanResult{}, fmt.Errorf("invalid policy: %w", err)
	}

	affected := make(map[string]bool)
	doneMinutes := make(map[string]int)
	for _, s := range missed {
		affected[s.TaskID] = true
		if s.Done {
			doneMinutes[s.TaskID] += s.Minutes()
		}
	}

	var untouched []model.Slot
	for _, s := range remaining {
		if !affected[s.TaskID] {
			untouched = append(untouched, s)
		}
	}

	// Adjust outstanding effort on the affected tasks, preserving the
	// input order so urgency ties stay deterministic.
	var adjusted []model.Task
	known := make(map[string]bool)
	for _, t := range tasks {
		known[t.ID] = true
		if !affected[t.ID] || t.Status == model.StatusDone {
			continue
		}
		t.EstimatedMinutes -= doneMinutes[t.ID]
		if t.EstimatedMinutes < minRemainingMinutes {
			t.EstimatedMinutes = minRemainingMinutes
		}
		if err := t.ValidateForPlanning(now); err != nil {
			return PlanResult{}, err
		}
		adjusted = append(adjusted, t)
	}
	for id := range affected {
		if !known[id] {
			p.log.Warnf("replan: missed slot references unknown task %s", id)
		}
	}

	var seed []model.Slot
	if opts.GlobalConflictCheck {
		seed = untouched
	}
	res := p.pack(sortByUrgency(adjusted, now), policy, now, newTimeline(seed))

	merged := make([]model.Slot, 0, len(untouched)+len(res.Slots))
	merged = append(merged, untouched...)
	merged = append(merged, res.Slots...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})

	res.Slots = merged
	res.Report = buildLoadReport(merged)
	return res, nil
}

// Replan replans with a default Packer and the current clock.
func Replan(missed, remaining []model.Slot, tasks []model.Task, policy model.PolicyConfig) (PlanResult, error) {
	return NewPacker(nil).Replan(missed, remaining, tasks, policy)
}

// ReplanWithOptions replans with a default Packer, a pinned clock and
// explicit options.
func ReplanWithOptions(missed, remaining []model.Slot, tasks []model.Task, policy model.PolicyConfig, now time.Time, opts ReplanOptions) (PlanResult, error) {
	return NewPacker(nil).ReplanAt(missed, remaining, tasks, policy, now, opts)
}
