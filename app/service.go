package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	apiplan "github.com/focusplan/focusplan/api/plan"
	apitasks "github.com/focusplan/focusplan/api/tasks"
	"github.com/focusplan/focusplan/config"
	coremetrics "github.com/focusplan/focusplan/core/metrics"
	"github.com/focusplan/focusplan/core/model"
	corenotify "github.com/focusplan/focusplan/core/notify"
	coreplan "github.com/focusplan/focusplan/core/plan"
	corestore "github.com/focusplan/focusplan/core/store"
	"github.com/focusplan/focusplan/infra/logger"
	"github.com/focusplan/focusplan/infra/metrics"
	"github.com/focusplan/focusplan/infra/notify"
	"github.com/focusplan/focusplan/infra/store"
	"github.com/focusplan/focusplan/internal/eventbus"
)

// Service orchestrates the task store, the planner and the outbound
// sinks. Planning passes are serialized: the store holds one schedule
// and concurrent passes would race on it.
type Service struct {
	store     corestore.TaskStore
	packer    *coreplan.Packer
	bus       eventbus.EventBus
	sink      coremetrics.PlanningSink
	publisher corenotify.PlanPublisher
	log       logger.Logger

	policy         model.PolicyConfig
	globalConflict bool

	addr        string
	promEnabled bool
	promPort    string

	mu sync.Mutex
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if lvl, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil && cfg.Logging.Level != "" {
		zerolog.SetGlobalLevel(lvl)
	}
	logg := logger.New("service")

	var ts corestore.TaskStore
	switch cfg.Storage.Backend {
	case "memory":
		ts = store.NewMemoryStore()
	default:
		var err error
		ts, err = store.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("open task store: %w", err)
		}
	}

	var sinks []coremetrics.PlanningSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(prometheus.DefaultRegisterer)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.PlanningSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var publisher corenotify.PlanPublisher = corenotify.NopPublisher{}
	if cfg.Notify.Enabled {
		p, err := notify.NewPahoPublisher(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("plan publisher: %w", err)
		}
		publisher = p
	}

	return &Service{
		store:          ts,
		packer:         coreplan.NewPacker(logger.New("planner")),
		bus:            eventbus.New(),
		sink:           sink,
		publisher:      publisher,
		log:            logg,
		policy:         cfg.Planner.Policy,
		globalConflict: cfg.Planner.GlobalConflictCheck,
		addr:           cfg.Server.Address,
		promEnabled:    cfg.Metrics.PrometheusEnabled,
		promPort:       cfg.Metrics.PrometheusPort,
	}, nil
}

// Bus exposes the internal event bus for observers.
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Store exposes the task store for the HTTP layer and the CLI.
func (s *Service) Store() corestore.TaskStore { return s.store }

// Plan generates a fresh schedule for the requested tasks, or for every
// open task when the request names none, and persists the per-task
// plans. It implements apiplan.Planner.
func (s *Service) Plan(ctx context.Context, req apiplan.Request) (coreplan.PlanResult, error) {
	return s.planAt(ctx, req, time.Now())
}

func (s *Service) planAt(ctx context.Context, req apiplan.Request, now time.Time) (coreplan.PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks(ctx, req.TaskIDs)
	if err != nil {
		return coreplan.PlanResult{}, err
	}
	policy := s.policy
	if req.Policy != nil {
		policy = *req.Policy
	}
	started := time.Now()
	res, err := s.packer.MakeSlotsAt(tasks, policy, now)
	if err != nil {
		return coreplan.PlanResult{}, err
	}
	policy.SetDefaults()
	if err := s.savePlans(ctx, tasks, res, policy); err != nil {
		return coreplan.PlanResult{}, err
	}

	s.record("plan", tasks, res, time.Since(started))
	s.bus.Publish(eventbus.PlanGenerated{
		Tasks:       len(tasks),
		Slots:       len(res.Slots),
		Shortfall:   res.Shortfall,
		GeneratedAt: res.GeneratedAt,
	})
	s.log.Infof("planned %d tasks into %d slots", len(tasks), len(res.Slots))
	return res, nil
}

// Replan reschedules every task that missed a slot, conserving the
// schedule of tasks that stayed on track. It implements apiplan.Planner.
func (s *Service) Replan(ctx context.Context) (coreplan.PlanResult, error) {
	return s.replanAt(ctx, time.Now())
}

func (s *Service) replanAt(ctx context.Context, now time.Time) (coreplan.PlanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.loadTasks(ctx, nil)
	if err != nil {
		return coreplan.PlanResult{}, err
	}
	var missed, remaining []model.Slot
	affected := make(map[string]bool)
	for _, t := range tasks {
		if t.Plan == nil {
			continue
		}
		for _, sl := range t.Plan.Slots {
			if sl.Done {
				continue
			}
			if sl.Start.Before(now) {
				missed = append(missed, sl)
				affected[t.ID] = true
			} else {
				remaining = append(remaining, sl)
			}
		}
		if !affected[t.ID] {
			continue
		}
		// Completed sessions of an affected task shrink its outstanding
		// effort, so they ride along in the missed set.
		for _, sl := range t.Plan.Slots {
			if sl.Done {
				missed = append(missed, sl)
			}
		}
	}

	started := time.Now()
	res, err := s.packer.ReplanAt(missed, remaining, tasks, s.policy, now,
		coreplan.ReplanOptions{GlobalConflictCheck: s.globalConflict})
	if err != nil {
		return coreplan.PlanResult{}, err
	}
	policy := s.policy
	policy.SetDefaults()
	if err := s.savePlans(ctx, tasks, res, policy); err != nil {
		return coreplan.PlanResult{}, err
	}

	s.record("replan", tasks, res, time.Since(started))
	s.bus.Publish(eventbus.ReplanCompleted{
		AffectedTasks: len(affected),
		Slots:         len(res.Slots),
		GeneratedAt:   res.GeneratedAt,
	})
	s.log.Infof("replanned %d affected tasks, %d slots total", len(affected), len(res.Slots))
	return res, nil
}

// Week returns the next seven days of the stored schedule. It implements
// apiplan.Planner.
func (s *Service) Week(ctx context.Context) ([]model.WeekDay, error) {
	return s.weekAt(ctx, time.Now())
}

func (s *Service) weekAt(ctx context.Context, now time.Time) ([]model.WeekDay, error) {
	tasks, err := s.loadTasks(ctx, nil)
	if err != nil {
		return nil, err
	}
	return coreplan.WeeklyPlanAt(tasks, s.policy, now), nil
}

// loadTasks fetches the named tasks, or every task still open for
// planning when ids is empty.
func (s *Service) loadTasks(ctx context.Context, ids []string) ([]model.Task, error) {
	if len(ids) == 0 {
		tasks, err := s.store.List(ctx, corestore.Filter{})
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		open := tasks[:0]
		for _, t := range tasks {
			if t.Status != model.StatusDone {
				open = append(open, t)
			}
		}
		return open, nil
	}
	tasks := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load task %s: %w", id, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// savePlans persists the result slots grouped per task and pushes each
// updated plan to the publisher. Tasks that received no slots and carry
// no shortfall keep their stored plan.
func (s *Service) savePlans(ctx context.Context, tasks []model.Task, res coreplan.PlanResult, policy model.PolicyConfig) error {
	byTask := make(map[string][]model.Slot)
	for _, sl := range res.Slots {
		byTask[sl.TaskID] = append(byTask[sl.TaskID], sl)
	}
	for _, t := range tasks {
		slots, ok := byTask[t.ID]
		if !ok && res.Shortfall[t.ID] == 0 {
			continue
		}
		p := model.TaskPlan{Slots: slots, Policy: policy, LastPlannedAt: res.GeneratedAt}
		if err := s.store.SavePlan(ctx, t.ID, p); err != nil {
			return fmt.Errorf("save plan for %s: %w", t.ID, err)
		}
		if err := s.publisher.PublishPlan(t.ID, p); err != nil {
			s.log.Errorf("publish plan for %s: %v", t.ID, err)
		}
	}
	return nil
}

// record forwards per-task planning events and the pass latency to the
// metrics sink.
func (s *Service) record(op string, tasks []model.Task, res coreplan.PlanResult, elapsed time.Duration) {
	scheduled := make(map[string]int)
	count := make(map[string]int)
	for _, sl := range res.Slots {
		scheduled[sl.TaskID] += sl.Minutes()
		count[sl.TaskID]++
	}
	events := make([]coremetrics.PlanEvent, 0, len(tasks))
	for _, t := range tasks {
		events = append(events, coremetrics.PlanEvent{
			Operation:        op,
			TaskID:           t.ID,
			Slots:            count[t.ID],
			ScheduledMinutes: scheduled[t.ID],
			ShortfallMinutes: res.Shortfall[t.ID],
			GeneratedAt:      res.GeneratedAt,
		})
	}
	if err := s.sink.RecordPlanEvents(events); err != nil {
		s.log.Errorf("record plan events: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.LatencyRecorder); ok {
		if err := rec.RecordPlanLatency([]coremetrics.PlanLatency{{Operation: op, Duration: elapsed}}); err != nil {
			s.log.Errorf("record plan latency: %v", err)
		}
	}
}

// Handler builds the HTTP API surface.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/tasks", apitasks.NewHandler(s.store))
	mux.Handle("/api/tasks/", apitasks.NewHandler(s.store))
	mux.Handle("/api/plan", apiplan.NewPlanHandler(s))
	mux.Handle("/api/plan/replan", apiplan.NewReplanHandler(s))
	mux.Handle("/api/plan/week", apiplan.NewWeekHandler(s))
	return mux
}

// Run serves the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Addr: s.addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Infof("listening on %s", s.addr)
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if err := s.publisher.Close(); err != nil {
		s.log.Errorf("publisher close: %v", err)
	}
	return s.store.Close()
}
