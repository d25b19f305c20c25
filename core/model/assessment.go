package model

import (
	"fmt"
	"time"
)

// Date layouts accepted for assessment due dates. The time component of the
// second form is parsed but ignored for scheduling purposes.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Assessment represents one gradable syllabus item to be scheduled.
type Assessment struct {
	ID         string     `json:"id"`
	CourseCode string     `json:"course_code"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	// HoursRequired is the total study time the item needs. Zero hours or a
	// missing due date disqualify the item from scheduling.
	HoursRequired float64 `json:"hours_required"`
	// WorkAheadOverride replaces the configured lead time for this
	// assessment's type when non-nil.
	WorkAheadOverride *int `json:"work_ahead_days,omitempty"`
}

// ParseDueDate parses a due date in either YYYY-MM-DD or
// YYYY-MM-DDTHH:MM:SS form.
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: expected %s or %s", s, DateLayout, DateTimeLayout)
	}
	return t, nil
}

// DateOf strips the time-of-day component, keeping the calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
