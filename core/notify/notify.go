package notify

import "github.com/focusplan/focusplan/core/model"

// PlanPublisher broadcasts freshly generated task plans to interested
// clients such as companion apps or dashboards. Publishing is
// best-effort transport of finished plans; reminder scheduling is out of
// scope.
type PlanPublisher interface {
	PublishPlan(taskID string, p model.TaskPlan) error
	Close() error
}

// NopPublisher discards all plans.
type NopPublisher struct{}

func (NopPublisher) PublishPlan(string, model.TaskPlan) error { return nil }
func (NopPublisher) Close() error                             { return nil }
