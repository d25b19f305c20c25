package export

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"studyplan/core/model"
	"studyplan/core/planner"
)

const (
	// Study blocks are sequenced back-to-back from this hour of the day.
	studyDayStartHour = 9
	// Due markers without a time-of-day default to one minute before
	// midnight.
	dueMarkerHour   = 23
	dueMarkerMinute = 59
)

// WriteICS writes the plan as an iCalendar document: one event per study
// block, back-to-back from 09:00 on each day, plus a one-minute DUE marker
// per dated assessment. Markers are derived from the raw assessment list,
// not from the plan's tasks, so unschedulable items still appear.
func WriteICS(w io.Writer, plan planner.Plan, assessments []model.Assessment, calendarName string) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//studyplan//EN")
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}
	now := time.Now().UTC()

	for _, day := range plan.Days {
		date, err := time.Parse(model.DateLayout, day.Date)
		if err != nil {
			return fmt.Errorf("invalid day date %q: %w", day.Date, err)
		}
		cursor := date.Add(studyDayStartHour * time.Hour)
		for _, task := range day.Tasks {
			minutes := int(math.Round(task.Hours * 60))
			end := cursor.Add(time.Duration(minutes) * time.Minute)

			uid := fmt.Sprintf("%s-%s-%s-%d@studyplan", day.Date, task.CourseCode, task.AssessmentID, minutes)
			ev := cal.AddEvent(uid)
			ev.SetDtStampTime(now)
			ev.SetStartAt(cursor)
			ev.SetEndAt(end)
			ev.SetSummary(blockSummary(task.CourseCode, task.Title))
			ev.SetDescription(fmt.Sprintf("Type: %s\nDue date: %s\nPlanned hours: %g", task.Type, task.DueDate, task.Hours))

			cursor = end
		}
	}

	for _, a := range assessments {
		if a.DueDate == nil {
			continue
		}
		due := *a.DueDate
		if due.Equal(model.DateOf(due)) {
			due = due.Add(dueMarkerHour*time.Hour + dueMarkerMinute*time.Minute)
		}

		uid := fmt.Sprintf("due-%s-%s-%s@studyplan", a.CourseCode, a.Type, due.Format(model.DateLayout))
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(now)
		ev.SetStartAt(due)
		ev.SetEndAt(due.Add(time.Minute))
		ev.SetSummary(fmt.Sprintf("DUE: %s", blockSummary(a.CourseCode, a.Type)))
		ev.SetDescription(fmt.Sprintf("Type: %s\nWeight hours: %g", a.Type, a.HoursRequired))
	}

	return cal.SerializeTo(w)
}

// blockSummary joins course code and title, tolerating either being empty.
func blockSummary(courseCode, title string) string {
	return strings.Trim(fmt.Sprintf("%s – %s", courseCode, title), " –")
}
