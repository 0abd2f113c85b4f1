package metrics

import "time"

// PlanEvent describes the outcome of one planning pass for one task.
type PlanEvent struct {
	Operation        string    // "plan" or "replan"
	TaskID           string
	Slots            int
	ScheduledMinutes int
	ShortfallMinutes int
	GeneratedAt      time.Time
}

// PlanLatency captures how long a planning pass took end to end.
type PlanLatency struct {
	Operation string
	Duration  time.Duration
}

// PlanningSink records planning events. Implementations live under
// infra/metrics.
type PlanningSink interface {
	RecordPlanEvents(events []PlanEvent) error
}

// LatencyRecorder is implemented by sinks that also track pass latency.
type LatencyRecorder interface {
	RecordPlanLatency(recs []PlanLatency) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPlanEvents([]PlanEvent) error    { return nil }
func (NopSink) RecordPlanLatency([]PlanLatency) error { return nil }

// Config defines settings for the metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}
