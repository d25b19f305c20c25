package metrics

import (
	"context"
	"time"

	"studyplan/core/events"
	coremetrics "studyplan/core/metrics"
	"studyplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// planning events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PlanEvent:
					_ = sink.RecordPlanRun(coremetrics.PlanRunEvent{
						RunID:            e.RunID,
						UserID:           e.UserID,
						Days:             e.Days,
						Assessments:      e.Assessments,
						ScheduledHours:   e.Stats.TotalScheduledHours,
						UnscheduledHours: e.UnscheduledHours,
						Duration:         e.Duration,
						Time:             time.Now(),
					})
				case events.AllocationEvent:
					_ = sink.RecordAllocations([]coremetrics.AllocationOutcome{{
						RunID:          e.RunID,
						AssessmentType: e.Type,
						Status:         e.Status,
						Scheduled:      e.Scheduled,
						Unscheduled:    e.Unscheduled,
					}})
				}
			}
		}
	}()
}
