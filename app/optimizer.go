package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studyplan/core/events"
	"studyplan/core/model"
	"studyplan/core/planner"
	"studyplan/infra/store"
)

// ErrNoSettings is returned when a plan is requested before the user has
// stored settings with semester dates.
var ErrNoSettings = errors.New("settings not configured")

// Optimize runs the allocation engine for one user, persists the resulting
// plan and publishes run events. When overrides is non-nil it is planned
// instead of the assessments derived from the stored courses.
func (s *Service) Optimize(ctx context.Context, userID string, overrides []model.Assessment) (planner.Plan, error) {
	started := time.Now()

	settings, err := s.loadSettings(ctx, userID)
	if err != nil {
		return planner.Plan{}, err
	}
	semStart, semEnd, err := settings.SemesterRange()
	if err != nil {
		return planner.Plan{}, err
	}

	assessments := overrides
	if assessments == nil {
		assessments, err = s.assessmentsFor(ctx, userID, settings)
		if err != nil {
			return planner.Plan{}, err
		}
	}
	if len(assessments) == 0 {
		return planner.Plan{}, fmt.Errorf("nothing to plan for user %s", userID)
	}

	pcfg := s.plannerConfig(settings)
	days := planner.BuildDaySlots(semStart, semEnd, s.dailyHours(settings))
	summaries := planner.New(semStart, semEnd, pcfg).Allocate(days, assessments)
	plan := planner.BuildPlan(days, summaries)

	if err := s.st.Save(ctx, userID, store.KindSchedule, plan); err != nil {
		return planner.Plan{}, fmt.Errorf("save plan: %w", err)
	}

	s.publishRun(plan, userID, assessments, summaries, time.Since(started))
	s.log.Infof("plan %s generated for %s: %d assessments over %d days, %.1fh scheduled",
		plan.RunID, userID, len(assessments), len(plan.Days), plan.Stats.TotalScheduledHours)
	return plan, nil
}

// Assessments derives the user's assessment list from the stored courses
// and settings, exactly as Optimize would see it.
func (s *Service) Assessments(ctx context.Context, userID string) ([]model.Assessment, error) {
	settings, err := s.loadSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assessmentsFor(ctx, userID, settings)
}

func (s *Service) loadSettings(ctx context.Context, userID string) (model.Settings, error) {
	var settings model.Settings
	if err := s.st.Load(ctx, userID, store.KindSettings, &settings); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Settings{}, ErrNoSettings
		}
		return model.Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return model.Settings{}, err
	}
	return settings, nil
}

func (s *Service) assessmentsFor(ctx context.Context, userID string, settings model.Settings) ([]model.Assessment, error) {
	var courses map[string]model.Course
	if err := s.st.Load(ctx, userID, store.KindCourses, &courses); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	cfg := s.plannerConfig(settings)
	return model.AssessmentsFromCourses(courses, nil, cfg.BaseHours, cfg.WorkAheadDays), nil
}

// plannerConfig resolves the per-type tables: user settings win over the
// service configuration, which in turn falls back to the stock defaults.
func (s *Service) plannerConfig(settings model.Settings) planner.Config {
	cfg := planner.Config{
		DefaultWorkAheadDays: s.cfg.Planner.DefaultWorkAheadDays,
		WorkAheadDays:        s.cfg.Planner.WorkAheadDays,
		BaseHours:            s.cfg.Planner.BaseHours,
	}
	if len(settings.WorkAheadDays) > 0 {
		cfg.WorkAheadDays = settings.WorkAheadDays
	}
	if len(settings.BaseHours) > 0 {
		cfg.BaseHours = settings.BaseHours
	}
	cfg.SetDefaults()
	return cfg
}

func (s *Service) dailyHours(settings model.Settings) map[string]float64 {
	if len(settings.DailyHours) > 0 {
		return settings.DailyHours
	}
	return model.DefaultSettings().DailyHours
}

func (s *Service) publishRun(plan planner.Plan, userID string, assessments []model.Assessment, summaries []planner.AllocationSummary, elapsed time.Duration) {
	typeByID := make(map[string]string, len(assessments))
	for _, a := range assessments {
		typeByID[a.ID] = a.Type
	}
	var unscheduled float64
	for _, sum := range summaries {
		unscheduled += sum.UnscheduledHours
		s.bus.Publish(events.AllocationEvent{
			RunID:        plan.RunID,
			AssessmentID: sum.AssessmentID,
			Type:         typeByID[sum.AssessmentID],
			Status:       sum.Status,
			Scheduled:    sum.ScheduledHours,
			Unscheduled:  sum.UnscheduledHours,
		})
	}
	s.bus.Publish(events.PlanEvent{
		RunID:            plan.RunID,
		UserID:           userID,
		Days:             len(plan.Days),
		Assessments:      len(assessments),
		Duration:         elapsed,
		Stats:            plan.Stats,
		UnscheduledHours: unscheduled,
	})
}
