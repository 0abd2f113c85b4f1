package plan

import (
	"sort"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

// WeeklyPlan buckets the existing plan slots of all tasks into a
// seven-day calendar view starting today. See WeeklyPlanAt.
func WeeklyPlan(tasks []model.Task, policy model.PolicyConfig) []model.WeekDay {
	return WeeklyPlanAt(tasks, policy, time.Now())
}

// WeeklyPlanAt builds seven consecutive day buckets starting at 00:00 on
// now's calendar day. Each task's current plan slots land in the bucket
// matching their start date; slots outside the window are dropped from
// the view only, never from storage. Buckets are sorted by start time.
// The policy parameter is accepted for interface symmetry with the other
// entry points; the view itself does not depend on it.
func WeeklyPlanAt(tasks []model.Task, _ model.PolicyConfig, now time.Time) []model.WeekDay {
	start := midnight(now)
	end := start.AddDate(0, 0, 7)

	days := make([]model.WeekDay, 7)
	index := make(map[string]int, 7)
	for i := range days {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		days[i] = model.WeekDay{Date: key, Slots: []model.Slot{}}
		index[key] = i
	}

	for _, t := range tasks {
		if t.Plan == nil {
			continue
		}
		for _, s := range t.Plan.Slots {
			if s.Start.Before(start) || !s.Start.Before(end) {
				continue
			}
			if i, ok := index[s.DayKey()]; ok {
				days[i].Slots = append(days[i].Slots, s)
			}
		}
	}

	for i := range days {
		slots := days[i].Slots
		sort.SliceStable(slots, func(a, b int) bool {
			if slots[a].Start.Equal(slots[b].Start) {
				return slots[a].ID < slots[b].ID
			}
			return slots[a].Start.Before(slots[b].Start)
		})
	}
	return days
}
