package planner

import (
	"math"
	"strings"
	"time"

	"studyplan/core/model"
)

// AllocationStatus reports the outcome of scheduling one assessment.
type AllocationStatus string

const (
	// StatusOK means the full required hours were placed.
	StatusOK AllocationStatus = "ok"
	// StatusIncompleteCapacity means the window had usable days but not
	// enough free capacity; the partial allocation is kept.
	StatusIncompleteCapacity AllocationStatus = "incomplete_capacity"
	// StatusNoAvailableDays means no day in the clamped window had
	// positive capacity.
	StatusNoAvailableDays AllocationStatus = "no_available_days"
	// StatusSkipped means the assessment had no due date or no required
	// hours and was not scheduled.
	StatusSkipped AllocationStatus = "skipped_missing_date_or_zero_hours"
)

const (
	// minUsefulBlock is the smallest block worth placing: remainders at or
	// below it are dropped and days with less free capacity are skipped.
	minUsefulBlock = 0.25
	// doneTolerance treats a residual this small as fully scheduled.
	doneTolerance = 1e-3
	// defaultWorkAheadDays applies to types absent from the lead-time table.
	defaultWorkAheadDays = 7
)

// StudyTask is one scheduled block, owned by the DaySlot it was placed
// into. Source assessment fields are denormalized for display.
type StudyTask struct {
	AssessmentID string  `json:"assessment_id"`
	CourseCode   string  `json:"course_code"`
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	DueDate      string  `json:"due_date,omitempty"`
	Hours        float64 `json:"hours"`
}

// AllocationSummary reports how much of one assessment's required time was
// placed.
type AllocationSummary struct {
	AssessmentID     string           `json:"assessment_id"`
	ScheduledHours   float64          `json:"scheduled_hours"`
	UnscheduledHours float64          `json:"unscheduled_hours"`
	Status           AllocationStatus `json:"status"`
}

// Planner allocates assessment study hours onto a semester calendar.
type Planner struct {
	semesterStart time.Time
	semesterEnd   time.Time
	workAhead     map[string]int
	defaultAhead  int
}

// New creates a Planner for the given semester bounds and per-type
// lead-time table. Table keys are matched case-insensitively.
func New(semesterStart, semesterEnd time.Time, cfg Config) *Planner {
	ahead := make(map[string]int, len(cfg.WorkAheadDays))
	for atype, days := range cfg.WorkAheadDays {
		ahead[strings.ToLower(atype)] = days
	}
	def := cfg.DefaultWorkAheadDays
	if def <= 0 {
		def = defaultWorkAheadDays
	}
	return &Planner{
		semesterStart: model.DateOf(semesterStart),
		semesterEnd:   model.DateOf(semesterEnd),
		workAhead:     ahead,
		defaultAhead:  def,
	}
}

// roundHalfHour rounds to the nearest half hour, halves away from zero
// (math.Round). The downgrade step in allocate keeps the capacity invariant
// regardless of tie direction.
func roundHalfHour(hours float64) float64 {
	return math.Round(hours*2) / 2
}

// workWindow computes the clamped date range in which an assessment may be
// scheduled. A due date past the semester end is treated as due on the last
// semester day.
func (p *Planner) workWindow(due time.Time, atype string, override *int) (start, end time.Time) {
	days := p.defaultAhead
	if override != nil {
		days = *override
	} else if d, ok := p.workAhead[strings.ToLower(atype)]; ok {
		days = d
	}
	start = due.AddDate(0, 0, -days)
	if start.Before(p.semesterStart) {
		start = p.semesterStart
	}
	end = due
	if end.After(p.semesterEnd) {
		end = p.semesterEnd
	}
	return start, end
}

// daysInWindow returns pointers to the slots inside [start, end] that have
// positive capacity, in ascending date order.
func daysInWindow(days []DaySlot, start, end time.Time) []*DaySlot {
	var eligible []*DaySlot
	for i := range days {
		d := &days[i]
		if d.Capacity <= 0 {
			continue
		}
		if d.Date.Before(start) || d.Date.After(end) {
			continue
		}
		eligible = append(eligible, d)
	}
	return eligible
}

// Allocate schedules each assessment in input order, mutating days in
// place, and returns one summary per assessment in the same order. Earlier
// assessments consume shared capacity first; the input order is never
// changed by the engine.
func (p *Planner) Allocate(days []DaySlot, assessments []model.Assessment) []AllocationSummary {
	summaries := make([]AllocationSummary, 0, len(assessments))
	for _, a := range assessments {
		summaries = append(summaries, p.allocate(days, a))
	}
	return summaries
}

func (p *Planner) allocate(days []DaySlot, a model.Assessment) AllocationSummary {
	if a.DueDate == nil || a.HoursRequired <= 0 {
		return AllocationSummary{
			AssessmentID:     a.ID,
			UnscheduledHours: a.HoursRequired,
			Status:           StatusSkipped,
		}
	}

	due := model.DateOf(*a.DueDate)
	start, end := p.workWindow(due, a.Type, a.WorkAheadOverride)
	eligible := daysInWindow(days, start, end)
	if len(eligible) == 0 {
		return AllocationSummary{
			AssessmentID:     a.ID,
			UnscheduledHours: a.HoursRequired,
			Status:           StatusNoAvailableDays,
		}
	}

	title := a.Title
	if title == "" {
		title = a.Type
	}
	dueStr := due.Format(model.DateLayout)

	remaining := a.HoursRequired
	for _, d := range eligible {
		if remaining <= minUsefulBlock {
			break
		}
		avail := d.Remaining()
		if avail < minUsefulBlock {
			continue
		}

		tentative := math.Min(avail, remaining)
		alloc := roundHalfHour(tentative)
		if alloc > avail || alloc > remaining {
			alloc = roundHalfHour(tentative - minUsefulBlock)
		}
		if alloc <= 0 || alloc > avail {
			continue
		}

		d.Tasks = append(d.Tasks, StudyTask{
			AssessmentID: a.ID,
			CourseCode:   a.CourseCode,
			Type:         a.Type,
			Title:        title,
			DueDate:      dueStr,
			Hours:        alloc,
		})
		remaining -= alloc
	}

	status := StatusOK
	if remaining > doneTolerance {
		status = StatusIncompleteCapacity
	}
	return AllocationSummary{
		AssessmentID:     a.ID,
		ScheduledHours:   roundHalfHour(a.HoursRequired - remaining),
		UnscheduledHours: roundHalfHour(math.Max(remaining, 0)),
		Status:           status,
	}
}
