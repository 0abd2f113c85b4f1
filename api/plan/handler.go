package plan

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/focusplan/focusplan/core/model"
	coreplan "github.com/focusplan/focusplan/core/plan"
)

// Request narrows a planning pass to specific tasks and overrides the
// default policy. Both fields are optional.
type Request struct {
	TaskIDs []string            `json:"task_ids,omitempty"`
	Policy  *model.PolicyConfig `json:"policy,omitempty"`
}

// Planner is the planning surface the handlers expose. app.Service
// implements it.
type Planner interface {
	Plan(ctx context.Context, req Request) (coreplan.PlanResult, error)
	Replan(ctx context.Context) (coreplan.PlanResult, error)
	Week(ctx context.Context) ([]model.WeekDay, error)
}

// NewPlanHandler returns an HTTP handler generating schedules via
// POST /api/plan. An empty body plans every open task with the default
// policy.
func NewPlanHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req Request
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		res, err := p.Plan(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, res)
	})
}

// NewReplanHandler returns an HTTP handler rescheduling missed work via
// POST /api/plan/replan.
func NewReplanHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		res, err := p.Replan(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, res)
	})
}

// NewWeekHandler returns an HTTP handler exposing the 7-day view via
// GET /api/plan/week.
func NewWeekHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		days, err := p.Week(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, days)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
