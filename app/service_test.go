package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiplan "github.com/focusplan/focusplan/api/plan"
	"github.com/focusplan/focusplan/config"
	"github.com/focusplan/focusplan/core/model"
	"github.com/focusplan/focusplan/internal/eventbus"
)

var testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday

func planRequest(ids []string) apiplan.Request {
	return apiplan.Request{TaskIDs: ids}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Backend = "memory"
	cfg.SetDefaults()
	svc, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func createTask(t *testing.T, svc *Service, id string, due time.Time, estMinutes int) model.Task {
	t.Helper()
	task, err := svc.store.Create(context.Background(), model.Task{
		ID: id, Title: id, DueAt: due, EstimatedMinutes: estMinutes,
		Priority: 3, Status: model.StatusTodo,
	})
	require.NoError(t, err)
	return task
}

func TestService_PlanPersistsPerTaskPlans(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTask(t, svc, "a", testNow.Add(30*time.Hour), 50)
	createTask(t, svc, "b", testNow.Add(30*time.Hour), 25)

	events := svc.Bus().Subscribe()
	res, err := svc.planAt(ctx, planRequest(nil), testNow)
	require.NoError(t, err)
	assert.Len(t, res.Slots, 3, "50min makes two sessions, 25min one")
	assert.Empty(t, res.Shortfall)

	a, err := svc.store.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, a.Plan)
	assert.Len(t, a.Plan.Slots, 2)
	assert.True(t, a.Plan.LastPlannedAt.Equal(testNow))
	assert.Equal(t, 25, a.Plan.Policy.PomodoroMinutes, "stored policy carries defaults")

	select {
	case e := <-events:
		gen, ok := e.(eventbus.PlanGenerated)
		require.True(t, ok, "expected a PlanGenerated event, got %T", e)
		assert.Equal(t, 2, gen.Tasks)
		assert.Equal(t, 3, gen.Slots)
	default:
		t.Fatal("no event published")
	}
}

func TestService_PlanNamedTasksOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTask(t, svc, "a", testNow.Add(30*time.Hour), 25)
	createTask(t, svc, "b", testNow.Add(30*time.Hour), 25)

	res, err := svc.planAt(ctx, planRequest([]string{"a"}), testNow)
	require.NoError(t, err)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, "a", res.Slots[0].TaskID)

	b, err := svc.store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, b.Plan, "unnamed task must keep its empty plan")
}

func TestService_PlanUnknownTask(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.planAt(context.Background(), planRequest([]string{"ghost"}), testNow)
	assert.Error(t, err)
}

func TestService_PlanSkipsDoneTasks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	done := createTask(t, svc, "done", testNow.Add(30*time.Hour), 25)
	done.Status = model.StatusDone
	require.NoError(t, svc.store.Update(ctx, done))
	createTask(t, svc, "open", testNow.Add(30*time.Hour), 25)

	res, err := svc.planAt(ctx, planRequest(nil), testNow)
	require.NoError(t, err)
	require.Len(t, res.Slots, 1)
	assert.Equal(t, "open", res.Slots[0].TaskID)
}

func TestService_ReplanConservesOnTrackTasks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	// Close enough to the deadline that repacked work anchors at the
	// replan clock instead of being deferred toward the due date.
	due := time.Date(2026, 3, 5, 7, 0, 0, 0, time.UTC)
	createTask(t, svc, "a", due, 25)
	createTask(t, svc, "b", due, 25)

	missedStart := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	keptStart := time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC)
	require.NoError(t, svc.store.SavePlan(ctx, "a", model.TaskPlan{
		Slots: []model.Slot{{
			ID: "a-1", TaskID: "a",
			Start: missedStart, End: missedStart.Add(25 * time.Minute),
			Kind: model.SlotFocus,
		}},
		Policy: model.DefaultPolicy(false), LastPlannedAt: testNow,
	}))
	require.NoError(t, svc.store.SavePlan(ctx, "b", model.TaskPlan{
		Slots: []model.Slot{{
			ID: "b-1", TaskID: "b",
			Start: keptStart, End: keptStart.Add(25 * time.Minute),
			Kind: model.SlotFocus,
		}},
		Policy: model.DefaultPolicy(false), LastPlannedAt: testNow,
	}))

	events := svc.Bus().Subscribe()
	replanNow := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	res, err := svc.replanAt(ctx, replanNow)
	require.NoError(t, err)
	require.Len(t, res.Slots, 2)

	a, err := svc.store.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, a.Plan.Slots, 1)
	assert.False(t, a.Plan.Slots[0].Start.Before(replanNow), "missed work must move past now")

	b, err := svc.store.Get(ctx, "b")
	require.NoError(t, err)
	require.Len(t, b.Plan.Slots, 1)
	assert.True(t, b.Plan.Slots[0].Start.Equal(keptStart), "on-track slot must not move")

	select {
	case e := <-events:
		rep, ok := e.(eventbus.ReplanCompleted)
		require.True(t, ok, "expected a ReplanCompleted event, got %T", e)
		assert.Equal(t, 1, rep.AffectedTasks)
	default:
		t.Fatal("no event published")
	}
}

func TestService_WeekBucketsStoredSlots(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	createTask(t, svc, "a", testNow.Add(72*time.Hour), 25)
	_, err := svc.planAt(ctx, planRequest(nil), testNow)
	require.NoError(t, err)

	days, err := svc.weekAt(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, days, 7)
	total := 0
	for _, d := range days {
		total += len(d.Slots)
	}
	assert.Equal(t, 1, total, "the single planned slot must land in one bucket")
}
