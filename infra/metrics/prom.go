package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/focusplan/focusplan/core/metrics"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	slots     *prometheus.CounterVec
	shortfall *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// NewPromSink registers planning metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	slots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_slots_total",
		Help: "Total number of scheduled slots",
	}, []string{"operation"})
	shortfall := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_shortfall_minutes_total",
		Help: "Total minutes that could not be scheduled",
	}, []string{"operation"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_duration_seconds",
		Help:    "Time spent in one planning pass",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	if err := reg.Register(slots); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			slots = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(shortfall); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			shortfall = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{slots: slots, shortfall: shortfall, latency: latency}, nil
}

// RecordPlanEvents increments the slot and shortfall counters per event.
func (s *PromSink) RecordPlanEvents(events []coremetrics.PlanEvent) error {
	for _, e := range events {
		s.slots.WithLabelValues(e.Operation).Add(float64(e.Slots))
		if e.ShortfallMinutes > 0 {
			s.shortfall.WithLabelValues(e.Operation).Add(float64(e.ShortfallMinutes))
		}
	}
	return nil
}

// RecordPlanLatency records the pass duration histogram.
func (s *PromSink) RecordPlanLatency(recs []coremetrics.PlanLatency) error {
	for _, r := range recs {
		s.latency.WithLabelValues(r.Operation).Observe(r.Duration.Seconds())
	}
	return nil
}
