package plan

import (
	"math"
	"testing"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

func TestBuildLoadReport(t *testing.T) {
	day1 := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	slots := []model.Slot{
		slotAt("a-1", "a", day1, 25, false),
		slotAt("a-2", "a", day1.Add(time.Hour), 35, false),
		slotAt("b-1", "b", day2, 120, false),
	}
	rep := buildLoadReport(slots)
	if len(rep.Days) != 2 {
		t.Fatalf("got %d days, want 2", len(rep.Days))
	}
	if rep.Days[0].Date != "2026-03-03" || rep.Days[0].Minutes != 60 {
		t.Errorf("day 1 = %+v, want 60 minutes on 2026-03-03", rep.Days[0])
	}
	if rep.Days[1].Date != "2026-03-04" || rep.Days[1].Minutes != 120 {
		t.Errorf("day 2 = %+v, want 120 minutes on 2026-03-04", rep.Days[1])
	}
	if math.Abs(rep.MeanMinutes-90) > 1e-9 {
		t.Errorf("mean = %v, want 90", rep.MeanMinutes)
	}
	if rep.PeakMinutes != 120 {
		t.Errorf("peak = %d, want 120", rep.PeakMinutes)
	}
	if rep.StddevMinutes <= 0 {
		t.Errorf("stddev = %v, want positive spread", rep.StddevMinutes)
	}
}

func TestBuildLoadReport_Empty(t *testing.T) {
	rep := buildLoadReport(nil)
	if len(rep.Days) != 0 || rep.MeanMinutes != 0 || rep.PeakMinutes != 0 || rep.StddevMinutes != 0 {
		t.Fatalf("empty schedule should yield a zero report, got %+v", rep)
	}
}

func TestBuildLoadReport_SingleDayHasNoSpread(t *testing.T) {
	day := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	rep := buildLoadReport([]model.Slot{slotAt("a-1", "a", day, 25, false)})
	if rep.StddevMinutes != 0 {
		t.Errorf("stddev of a single day = %v, want 0", rep.StddevMinutes)
	}
}
