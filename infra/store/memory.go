package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/focusplan/focusplan/core/model"
	corestore "github.com/focusplan/focusplan/core/store"
)

// MemoryStore is an in-memory TaskStore used for tests and ephemeral
// runs. Tasks are copied on the way in and out so callers never share
// mutable state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]model.Task)}
}

func cloneTask(t model.Task) model.Task {
	if t.Plan != nil {
		p := *t.Plan
		p.Slots = append([]model.Slot(nil), t.Plan.Slots...)
		t.Plan = &p
	}
	return t
}

// Create stores a new task, assigning an ID when none is set.
func (s *MemoryStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = model.StatusTodo
	}
	if err := t.Validate(); err != nil {
		return model.Task{}, err
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.mu.Lock()
	s.tasks[t.ID] = cloneTask(t)
	s.mu.Unlock()
	return t, nil
}

// Get returns the task with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, corestore.ErrNotFound
	}
	return cloneTask(t), nil
}

// Update replaces the stored task.
func (s *MemoryStore) Update(_ context.Context, t model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.tasks[t.ID]
	if !ok {
		return corestore.ErrNotFound
	}
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	s.tasks[t.ID] = cloneTask(t)
	return nil
}

// Delete removes the task.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return corestore.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// List returns tasks matching the filter, ordered by due date then ID.
func (s *MemoryStore) List(_ context.Context, f corestore.Filter) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if f.Matches(t) {
			out = append(out, cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].DueAt.Before(out[j].DueAt)
	})
	return out, nil
}

// SavePlan replaces the stored plan of the given task.
func (s *MemoryStore) SavePlan(_ context.Context, taskID string, p model.TaskPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[taskID]
	if !ok {
		return corestore.ErrNotFound
	}
	t.Plan = &p
	t.UpdatedAt = time.Now().UTC()
	s.tasks[taskID] = cloneTask(t)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
