package model

import (
	"fmt"
	"time"
)

// WeekdayNames lists the lowercase weekday keys of the daily-hours table,
// Monday first.
var WeekdayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Settings holds a user's study preferences. Dates are kept in their stored
// textual YYYY-MM-DD form; SemesterRange parses them.
type Settings struct {
	SemesterStart string             `json:"semester_start"`
	SemesterEnd   string             `json:"semester_end"`
	DailyHours    map[string]float64 `json:"daily_hours"`
	WorkAheadDays map[string]int     `json:"work_ahead_days"`
	BaseHours     map[string]float64 `json:"base_hours"`
}

// DefaultWorkAheadDays is the stock lead-time table, in days before the due
// date, per normalized assessment type.
func DefaultWorkAheadDays() map[string]int {
	return map[string]int{
		"assignment": 7, "quiz": 3, "lab": 1,
		"midterm": 10, "exam": 20, "final": 20,
		"project": 20, "presentation": 7,
		"essay": 20, "report": 10,
		"case_study": 3, "discussion": 1,
		"reading": 1, "homework": 1,
		"participation": 0,
	}
}

// DefaultBaseHours is the stock required-hours table per normalized
// assessment type.
func DefaultBaseHours() map[string]float64 {
	return map[string]float64{
		"assignment": 4, "quiz": 3, "lab": 3,
		"midterm": 12, "exam": 20, "final": 20,
		"project": 25, "presentation": 10,
		"essay": 20, "report": 10,
		"case_study": 8, "discussion": 2,
		"reading": 2, "homework": 2,
		"participation": 1,
	}
}

// DefaultSettings returns settings with empty semester dates, zero daily
// hours for every weekday and the stock per-type tables.
func DefaultSettings() Settings {
	daily := make(map[string]float64, len(WeekdayNames))
	for _, d := range WeekdayNames {
		daily[d] = 0
	}
	return Settings{
		DailyHours:    daily,
		WorkAheadDays: DefaultWorkAheadDays(),
		BaseHours:     DefaultBaseHours(),
	}
}

// SemesterRange parses the semester bounds.
func (s Settings) SemesterRange() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, s.SemesterStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid semester start %q: %w", s.SemesterStart, err)
	}
	end, err = time.Parse(DateLayout, s.SemesterEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid semester end %q: %w", s.SemesterEnd, err)
	}
	return start, end, nil
}

// Validate checks that the settings are sound before an optimization run.
func (s Settings) Validate() error {
	start, end, err := s.SemesterRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("semester end %s precedes start %s", s.SemesterEnd, s.SemesterStart)
	}
	for day, hours := range s.DailyHours {
		if hours < 0 || hours > 24 {
			return fmt.Errorf("daily hours for %s out of range: %v", day, hours)
		}
	}
	for atype, days := range s.WorkAheadDays {
		if days < 0 {
			return fmt.Errorf("work-ahead days for %s must be non-negative: %d", atype, days)
		}
	}
	for atype, hours := range s.BaseHours {
		if hours < 0 {
			return fmt.Errorf("base hours for %s must be non-negative: %v", atype, hours)
		}
	}
	return nil
}
