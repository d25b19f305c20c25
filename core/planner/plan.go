package planner

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"studyplan/core/model"
)

// Plan is the aggregate output of one optimization run.
type Plan struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	Days        []DayEntry          `json:"days"`
	Allocations []AllocationSummary `json:"allocations"`
	Stats       LoadStats           `json:"stats"`
}

// DayEntry is the reportable form of one DaySlot.
type DayEntry struct {
	Date           string      `json:"date"`
	Weekday        string      `json:"weekday"`
	AvailableHours float64     `json:"available_hours"`
	ScheduledHours float64     `json:"scheduled_hours"`
	Tasks          []StudyTask `json:"tasks"`
}

// LoadStats summarizes how evenly the plan loads the semester.
type LoadStats struct {
	TotalAvailableHours float64 `json:"total_available_hours"`
	TotalScheduledHours float64 `json:"total_scheduled_hours"`
	MeanDailyLoad       float64 `json:"mean_daily_load"`
	StdDevDailyLoad     float64 `json:"stddev_daily_load"`
	Utilization         float64 `json:"utilization"`
}

// BuildPlan assembles the report for an allocation run. Days must be the
// slots mutated by Allocate and summaries its return value.
func BuildPlan(days []DaySlot, summaries []AllocationSummary) Plan {
	entries := make([]DayEntry, 0, len(days))
	loads := make([]float64, 0, len(days))
	for i := range days {
		d := &days[i]
		scheduled := roundHalfHour(d.Scheduled())
		entries = append(entries, DayEntry{
			Date:           d.Date.Format(model.DateLayout),
			Weekday:        d.Weekday,
			AvailableHours: d.Capacity,
			ScheduledHours: scheduled,
			Tasks:          d.Tasks,
		})
		loads = append(loads, scheduled)
	}
	return Plan{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Days:        entries,
		Allocations: summaries,
		Stats:       loadStats(days, loads),
	}
}

func loadStats(days []DaySlot, loads []float64) LoadStats {
	s := LoadStats{}
	for i := range days {
		s.TotalAvailableHours += days[i].Capacity
	}
	for _, l := range loads {
		s.TotalScheduledHours += l
	}
	if len(loads) > 0 {
		s.MeanDailyLoad = stat.Mean(loads, nil)
	}
	if len(loads) > 1 {
		s.StdDevDailyLoad = stat.StdDev(loads, nil)
	}
	if s.TotalAvailableHours > 0 {
		s.Utilization = s.TotalScheduledHours / s.TotalAvailableHours
	}
	return s
}
