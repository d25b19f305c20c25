package metrics

import (
	"time"

	"studyplan/core/planner"
)

// PlanRunEvent captures one completed optimization run.
type PlanRunEvent struct {
	RunID            string
	UserID           string
	Days             int
	Assessments      int
	ScheduledHours   float64
	UnscheduledHours float64
	Duration         time.Duration
	Time             time.Time
}

// AllocationOutcome captures the outcome for one assessment in a run.
type AllocationOutcome struct {
	RunID          string
	AssessmentType string
	Status         planner.AllocationStatus
	Scheduled      float64
	Unscheduled    float64
}

// Sink records planning activity for observability purposes.
type Sink interface {
	RecordPlanRun(ev PlanRunEvent) error
	RecordAllocations(outcomes []AllocationOutcome) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPlanRun(PlanRunEvent) error            { return nil }
func (NopSink) RecordAllocations([]AllocationOutcome) error { return nil }

// Config defines settings for the metrics endpoint.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}
