package plan

import (
	"errors"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

const (
	// horizonDays bounds every search to a 14-day forward window.
	horizonDays = 14
	// windowStartHour/windowEndHour delimit the daily business window
	// [08:00, 22:00) eligible for scheduling.
	windowStartHour = 8
	windowEndHour   = 22
	// stepMinutes is the candidate-start granularity.
	stepMinutes = 15
	// dueBuffer is the margin before a due date that scheduling prefers
	// not to cross.
	dueBuffer = 2 * time.Hour
)

// ErrNoWindow indicates that no conflict-free, budget-respecting
// interval exists before the deadline within the planning horizon.
var ErrNoWindow = errors.New("no conflict-free window within the planning horizon")

// findNextSlot returns the earliest start time at or after from where an
// interval of the given duration fits: inside business hours, under the
// daily cap, and free of overlap with every slot already on the
// timeline. Days are scanned in order; a day whose window opens past the
// deadline ends the search since every later day is infeasible too.
func findNextSlot(from time.Time, duration time.Duration, deadline time.Time, tl *timeline, policy model.PolicyConfig) (time.Time, error) {
	need := int(duration.Minutes())
	for day := 0; day < horizonDays; day++ {
		base := midnight(from).AddDate(0, 0, day)
		windowStart := base.Add(windowStartHour * time.Hour)
		windowEnd := base.Add(windowEndHour * time.Hour)
		if windowStart.After(deadline) {
			return time.Time{}, ErrNoWindow
		}
		if tl.usedMinutes(base)+need > policy.MaxDailyMinutes {
			continue
		}
		cursor := windowStart
		if day == 0 && from.After(cursor) {
			cursor = from
		}
		latest := windowEnd.Add(-duration)
		for !cursor.After(latest) {
			if !tl.conflicts(cursor, cursor.Add(duration)) {
				return cursor, nil
			}
			cursor = cursor.Add(stepMinutes * time.Minute)
		}
	}
	return time.Time{}, ErrNoWindow
}
