package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusplan/focusplan/core/model"
	corestore "github.com/focusplan/focusplan/core/store"
)

func openStores(t *testing.T) map[string]corestore.TaskStore {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]corestore.TaskStore{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func sampleTask(id string, due time.Time) model.Task {
	return model.Task{
		ID:               id,
		Title:            "read chapter 4",
		Course:           "algorithms",
		Type:             "reading",
		DueAt:            due,
		EstimatedMinutes: 90,
		Priority:         3,
		Status:           model.StatusTodo,
	}
}

func TestTaskStore_CreateAndGet(t *testing.T) {
	due := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := s.Create(ctx, sampleTask("", due))
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID, "store should assign an ID")
			assert.False(t, created.CreatedAt.IsZero())

			got, err := s.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "read chapter 4", got.Title)
			assert.Equal(t, due, got.DueAt)
			assert.Equal(t, model.StatusTodo, got.Status)
			assert.Nil(t, got.Plan)
		})
	}
}

func TestTaskStore_GetMissing(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, corestore.ErrNotFound)
		})
	}
}

func TestTaskStore_Update(t *testing.T) {
	due := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			created, err := s.Create(ctx, sampleTask("t1", due))
			require.NoError(t, err)

			created.Status = model.StatusDoing
			created.Priority = 5
			require.NoError(t, s.Update(ctx, created))

			got, err := s.Get(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, model.StatusDoing, got.Status)
			assert.Equal(t, 5, got.Priority)

			missing := sampleTask("ghost", due)
			assert.ErrorIs(t, s.Update(ctx, missing), corestore.ErrNotFound)
		})
	}
}

func TestTaskStore_Delete(t *testing.T) {
	due := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Create(ctx, sampleTask("t1", due))
			require.NoError(t, err)
			require.NoError(t, s.Delete(ctx, "t1"))
			_, err = s.Get(ctx, "t1")
			assert.ErrorIs(t, err, corestore.ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, "t1"), corestore.ErrNotFound)
		})
	}
}

func TestTaskStore_ListFilters(t *testing.T) {
	base := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := sampleTask("a", base)
			b := sampleTask("b", base.Add(48*time.Hour))
			b.Course = "databases"
			c := sampleTask("c", base.Add(24*time.Hour))
			c.Status = model.StatusDone
			for _, task := range []model.Task{a, b, c} {
				_, err := s.Create(ctx, task)
				require.NoError(t, err)
			}

			all, err := s.List(ctx, corestore.Filter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{"a", "c", "b"}, []string{all[0].ID, all[1].ID, all[2].ID},
				"list should be ordered by due date")

			todo, err := s.List(ctx, corestore.Filter{Status: model.StatusTodo})
			require.NoError(t, err)
			assert.Len(t, todo, 2)

			db, err := s.List(ctx, corestore.Filter{Course: "databases"})
			require.NoError(t, err)
			require.Len(t, db, 1)
			assert.Equal(t, "b", db[0].ID)

			soon, err := s.List(ctx, corestore.Filter{DueBefore: base.Add(time.Hour)})
			require.NoError(t, err)
			require.Len(t, soon, 1)
			assert.Equal(t, "a", soon[0].ID)
		})
	}
}

func TestTaskStore_SavePlan(t *testing.T) {
	due := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	start := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	plan := model.TaskPlan{
		Slots: []model.Slot{{
			ID: "t1-1", TaskID: "t1",
			Start: start, End: start.Add(25 * time.Minute),
			Kind: model.SlotFocus,
		}},
		Policy:        model.DefaultPolicy(false),
		LastPlannedAt: start.Add(-time.Hour),
	}
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.Create(ctx, sampleTask("t1", due))
			require.NoError(t, err)
			require.NoError(t, s.SavePlan(ctx, "t1", plan))

			got, err := s.Get(ctx, "t1")
			require.NoError(t, err)
			require.NotNil(t, got.Plan)
			require.Len(t, got.Plan.Slots, 1)
			assert.Equal(t, "t1-1", got.Plan.Slots[0].ID)
			assert.True(t, got.Plan.Slots[0].Start.Equal(start))
			assert.Equal(t, 25, got.Plan.Policy.PomodoroMinutes)

			assert.ErrorIs(t, s.SavePlan(ctx, "ghost", plan), corestore.ErrNotFound)
		})
	}
}

func TestTaskStore_CreateRejectsInvalid(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			bad := sampleTask("t1", time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))
			bad.Priority = 9
			_, err := s.Create(context.Background(), bad)
			assert.Error(t, err)
		})
	}
}

func TestMemoryStore_CopiesOnReturn(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	due := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	_, err := s.Create(ctx, sampleTask("t1", due))
	require.NoError(t, err)
	require.NoError(t, s.SavePlan(ctx, "t1", model.TaskPlan{
		Slots:  []model.Slot{{ID: "t1-1", TaskID: "t1", Start: due, End: due.Add(25 * time.Minute)}},
		Policy: model.DefaultPolicy(false),
	}))

	got, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	got.Plan.Slots[0].ID = "mutated"

	again, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1-1", again.Plan.Slots[0].ID, "caller mutation must not reach the store")
}
