package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/focusplan/focusplan/core/model"
	"github.com/focusplan/focusplan/core/store"
)

// NewHandler returns an HTTP handler exposing task CRUD under /api/tasks.
// The collection supports GET with status, course and due_before query
// filters and POST to create; /api/tasks/{id} supports GET, PUT and DELETE.
func NewHandler(s store.TaskStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/tasks"), "/")
		if id == "" {
			handleCollection(w, r, s)
			return
		}
		handleItem(w, r, s, id)
	})
}

func handleCollection(w http.ResponseWriter, r *http.Request, s store.TaskStore) {
	switch r.Method {
	case http.MethodGet:
		f := store.Filter{
			Status: model.Status(r.URL.Query().Get("status")),
			Course: r.URL.Query().Get("course"),
		}
		if f.Status != "" && !f.Status.Valid() {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		if s := r.URL.Query().Get("due_before"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				http.Error(w, "due_before must be RFC3339", http.StatusBadRequest)
				return
			}
			f.DueBefore = t
		}
		list, err := s.List(r.Context(), f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if list == nil {
			list = []model.Task{}
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var t model.Task
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := s.Create(r.Context(), t)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func handleItem(w http.ResponseWriter, r *http.Request, s store.TaskStore, id string) {
	switch r.Method {
	case http.MethodGet:
		t, err := s.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	case http.MethodPut:
		var t model.Task
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t.ID = id
		if err := s.Update(r.Context(), t); err != nil {
			writeStoreError(w, err)
			return
		}
		updated, err := s.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.Delete(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "task not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
