package plan

import (
	"sort"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

// timeline is the growing set of placed slots threaded through one
// planning pass. It is explicitly passed, never shared across concurrent
// calls, and keeps its slots ordered by start time so conflict checks
// and daily totals stay cheap.
type timeline struct {
	slots []model.Slot
}

// newTimeline returns a timeline seeded with the given slots. The seed
// is copied and sorted; seeded slots count as occupied time but are not
// part of the pass's output.
func newTimeline(seed []model.Slot) *timeline {
	tl := &timeline{}
	if len(seed) > 0 {
		tl.slots = make([]model.Slot, len(seed))
		copy(tl.slots, seed)
		sort.SliceStable(tl.slots, func(i, j int) bool {
			return tl.slots[i].Start.Before(tl.slots[j].Start)
		})
	}
	return tl
}

// add inserts the slot keeping the list ordered by start time.
func (tl *timeline) add(s model.Slot) {
	i := sort.Search(len(tl.slots), func(i int) bool {
		return tl.slots[i].Start.After(s.Start)
	})
	tl.slots = append(tl.slots, model.Slot{})
	copy(tl.slots[i+1:], tl.slots[i:])
	tl.slots[i] = s
}

// conflicts reports whether the half-open interval [start,end) overlaps
// any placed slot.
func (tl *timeline) conflicts(start, end time.Time) bool {
	for _, s := range tl.slots {
		if start.Before(s.End) && end.After(s.Start) {
			return true
		}
	}
	return false
}

// usedMinutes sums the durations of all slots starting on the same
// calendar day as day.
func (tl *timeline) usedMinutes(day time.Time) int {
	total := 0
	for _, s := range tl.slots {
		if sameDay(s.Start, day) {
			total += s.Minutes()
		}
	}
	return total
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// midnight returns 00:00 on t's calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
