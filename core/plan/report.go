package plan

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/focusplan/focusplan/core/model"
)

// DayLoad is the scheduled workload of one calendar day.
type DayLoad struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Minutes int    `json:"minutes"`
}

// LoadReport summarizes how a generated schedule spreads across days.
// It gives callers a quick read on whether the horizon is evenly loaded
// or piling up against the deadlines.
type LoadReport struct {
	Days          []DayLoad `json:"days"`
	MeanMinutes   float64   `json:"mean_minutes"`
	StddevMinutes float64   `json:"stddev_minutes"`
	PeakMinutes   int       `json:"peak_minutes"`
}

// buildLoadReport aggregates slot durations per start day and computes
// spread statistics over the loaded days.
func buildLoadReport(slots []model.Slot) LoadReport {
	byDay := make(map[string]int)
	for _, s := range slots {
		byDay[s.DayKey()] += s.Minutes()
	}
	if len(byDay) == 0 {
		return LoadReport{}
	}

	days := make([]DayLoad, 0, len(byDay))
	for date, minutes := range byDay {
		days = append(days, DayLoad{Date: date, Minutes: minutes})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	values := make([]float64, len(days))
	peak := 0
	for i, d := range days {
		values[i] = float64(d.Minutes)
		if d.Minutes > peak {
			peak = d.Minutes
		}
	}
	rep := LoadReport{
		Days:        days,
		MeanMinutes: stat.Mean(values, nil),
		PeakMinutes: peak,
	}
	if len(values) > 1 {
		rep.StddevMinutes = stat.StdDev(values, nil)
	}
	return rep
}
