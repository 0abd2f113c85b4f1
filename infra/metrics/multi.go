package metrics

import coremetrics "github.com/focusplan/focusplan/core/metrics"

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.PlanningSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.PlanningSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlanEvents forwards the events to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPlanEvents(events []coremetrics.PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlanEvents(events); err != nil {
			return err
		}
	}
	return nil
}

// RecordPlanLatency forwards latency records to sinks that support them.
func (m *MultiSink) RecordPlanLatency(recs []coremetrics.PlanLatency) error {
	for _, s := range m.Sinks {
		if lr, ok := s.(coremetrics.LatencyRecorder); ok {
			if err := lr.RecordPlanLatency(recs); err != nil {
				return err
			}
		}
	}
	return nil
}
