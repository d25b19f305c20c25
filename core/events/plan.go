package events

import (
	"time"

	"studyplan/core/planner"
)

// PlanEvent is published when an optimization run completes.
type PlanEvent struct {
	RunID       string
	UserID      string
	Days        int
	Assessments int
	Duration    time.Duration
	Stats       planner.LoadStats
	// UnscheduledHours sums the hours left unplaced across all summaries;
	// it is not derivable from Stats, which tracks capacity.
	UnscheduledHours float64
}

// AllocationEvent is published for each assessment processed in a run.
type AllocationEvent struct {
	RunID        string
	AssessmentID string
	Type         string
	Status       planner.AllocationStatus
	Scheduled    float64
	Unscheduled  float64
}
