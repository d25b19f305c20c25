package planner

import (
	"reflect"
	"testing"
	"time"

	"studyplan/core/model"
)

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt(i int) *int              { return &i }

func newTestPlanner(start, end time.Time, workAhead map[string]int) *Planner {
	cfg := Config{WorkAheadDays: workAhead}
	if cfg.WorkAheadDays == nil {
		cfg.WorkAheadDays = map[string]int{}
	}
	return New(start, end, cfg)
}

// checkCapacityInvariant fails the test if any day holds more task hours
// than its capacity.
func checkCapacityInvariant(t *testing.T, days []DaySlot) {
	t.Helper()
	for _, d := range days {
		if d.Scheduled() > d.Capacity+1e-9 {
			t.Errorf("day %s oversubscribed: %v > %v", d.Date.Format("2006-01-02"), d.Scheduled(), d.Capacity)
		}
	}
}

func TestAllocateFullySchedulable(t *testing.T) {
	// Semester Jan 1-10, 2h/day, one assessment due Jan 10 needing 6h with
	// a 5 day lead: the window is Jan 5-10 and the earliest days fill first.
	p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 10), map[string]int{"assignment": 5})
	days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 10), uniformHours(2))

	sums := p.Allocate(days, []model.Assessment{{
		ID: "a1", CourseCode: "CS201", Type: "assignment", Title: "A3",
		DueDate: ptrTime(date(2025, 1, 10)), HoursRequired: 6,
	}})

	if len(sums) != 1 {
		t.Fatalf("expected one summary, got %d", len(sums))
	}
	s := sums[0]
	if s.Status != StatusOK || s.ScheduledHours != 6 || s.UnscheduledHours != 0 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	// Jan 5, 6, 7 get 2h each; earlier days are outside the window.
	for i := 0; i < 4; i++ {
		if len(days[i].Tasks) != 0 {
			t.Errorf("day %d outside window should be empty", i)
		}
	}
	for i := 4; i < 7; i++ {
		if len(days[i].Tasks) != 1 || days[i].Tasks[0].Hours != 2 {
			t.Errorf("day %d: expected one 2h task, got %+v", i, days[i].Tasks)
		}
	}
	for i := 7; i < 10; i++ {
		if len(days[i].Tasks) != 0 {
			t.Errorf("day %d should be empty once hours are satisfied", i)
		}
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateIncompleteCapacity(t *testing.T) {
	p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 10), map[string]int{"exam": 2})
	days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 10), uniformHours(2))

	sums := p.Allocate(days, []model.Assessment{{
		ID: "e1", Type: "exam", DueDate: ptrTime(date(2025, 1, 10)), HoursRequired: 20,
	}})

	s := sums[0]
	if s.Status != StatusIncompleteCapacity {
		t.Fatalf("status = %s, want incomplete_capacity", s.Status)
	}
	if s.ScheduledHours != 6 || s.UnscheduledHours != 14 {
		t.Fatalf("scheduled %v / unscheduled %v, want 6 / 14", s.ScheduledHours, s.UnscheduledHours)
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateMissingDueDateOrZeroHours(t *testing.T) {
	p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 10), nil)
	days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 10), uniformHours(2))
	before := make([]DaySlot, len(days))
	copy(before, days)

	sums := p.Allocate(days, []model.Assessment{
		{ID: "nodate", Type: "quiz", HoursRequired: 4},
		{ID: "zero", Type: "quiz", DueDate: ptrTime(date(2025, 1, 8))},
	})

	for _, s := range sums {
		if s.Status != StatusSkipped {
			t.Errorf("%s: status = %s, want skipped", s.AssessmentID, s.Status)
		}
		if s.ScheduledHours != 0 {
			t.Errorf("%s: scheduled %v, want 0", s.AssessmentID, s.ScheduledHours)
		}
	}
	if sums[0].UnscheduledHours != 4 {
		t.Errorf("unscheduled %v, want the required hours", sums[0].UnscheduledHours)
	}
	if !reflect.DeepEqual(before, days) {
		t.Fatalf("skipped assessments must not touch any day slot")
	}
}

func TestAllocateNoAvailableDays(t *testing.T) {
	// Due date and lead time both before the semester: the clamped window
	// is inverted and holds no days.
	p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 31), map[string]int{"quiz": 3})
	days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 31), uniformHours(2))

	sums := p.Allocate(days, []model.Assessment{{
		ID: "early", Type: "quiz", DueDate: ptrTime(date(2024, 12, 20)), HoursRequired: 3,
	}})
	if sums[0].Status != StatusNoAvailableDays {
		t.Fatalf("status = %s, want no_available_days", sums[0].Status)
	}

	// All-zero capacity inside a valid window reports the same status.
	zeroDays := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 31), uniformHours(0))
	sums = p.Allocate(zeroDays, []model.Assessment{{
		ID: "z", Type: "quiz", DueDate: ptrTime(date(2025, 1, 15)), HoursRequired: 3,
	}})
	if sums[0].Status != StatusNoAvailableDays {
		t.Fatalf("status = %s, want no_available_days for zero-capacity window", sums[0].Status)
	}
}

func TestWorkWindowClamping(t *testing.T) {
	p := newTestPlanner(date(2025, 1, 10), date(2025, 5, 10), map[string]int{"exam": 20})

	// Lead time reaching before the semester clamps to the start.
	start, end := p.workWindow(date(2025, 1, 15), "exam", nil)
	if !start.Equal(date(2025, 1, 10)) {
		t.Errorf("window start %v, want semester start", start)
	}
	if !end.Equal(date(2025, 1, 15)) {
		t.Errorf("window end %v, want due date", end)
	}

	// A due date past the semester end clamps the window end down.
	start, end = p.workWindow(date(2025, 5, 20), "exam", nil)
	if !end.Equal(date(2025, 5, 10)) {
		t.Errorf("window end %v, want semester end", end)
	}
	if !start.Equal(date(2025, 4, 30)) {
		t.Errorf("window start %v, want due-20d", start)
	}
}

func TestWorkWindowLeadTimeSources(t *testing.T) {
	p := newTestPlanner(date(2025, 1, 1), date(2025, 12, 31), map[string]int{"Quiz": 3})
	due := date(2025, 6, 10)

	// Table lookup is case-insensitive.
	start, _ := p.workWindow(due, "QUIZ", nil)
	if !start.Equal(date(2025, 6, 7)) {
		t.Errorf("table lead: start %v, want due-3d", start)
	}

	// Per-assessment override wins over the table.
	start, _ = p.workWindow(due, "quiz", ptrInt(1))
	if !start.Equal(date(2025, 6, 9)) {
		t.Errorf("override lead: start %v, want due-1d", start)
	}

	// Unconfigured type falls back to 7 days.
	start, _ = p.workWindow(due, "seminar", nil)
	if !start.Equal(date(2025, 6, 3)) {
		t.Errorf("default lead: start %v, want due-7d", start)
	}
}

func TestAllocateRoundsToHalfHours(t *testing.T) {
	// Capacity 1.75: the tentative 1.75 rounds up to 2.0 which exceeds the
	// day, so the allocation downgrades to 1.5.
	p := newTestPlanner(date(2025, 1, 6), date(2025, 1, 6), nil)
	days := BuildDaySlots(date(2025, 1, 6), date(2025, 1, 6), uniformHours(1.75))

	sums := p.Allocate(days, []model.Assessment{{
		ID: "r", Type: "assignment", DueDate: ptrTime(date(2025, 1, 6)), HoursRequired: 3,
	}})

	if len(days[0].Tasks) != 1 || days[0].Tasks[0].Hours != 1.5 {
		t.Fatalf("expected a single 1.5h task, got %+v", days[0].Tasks)
	}
	if sums[0].ScheduledHours != 1.5 || sums[0].Status != StatusIncompleteCapacity {
		t.Fatalf("unexpected summary: %+v", sums[0])
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateSkipsDustRemainders(t *testing.T) {
	// 2.25 required: 2h placed on the first day, the 0.25 remainder is
	// dropped rather than spread as dust.
	p := newTestPlanner(date(2025, 1, 6), date(2025, 1, 10), nil)
	days := BuildDaySlots(date(2025, 1, 6), date(2025, 1, 10), uniformHours(2))

	sums := p.Allocate(days, []model.Assessment{{
		ID: "d", Type: "assignment", DueDate: ptrTime(date(2025, 1, 10)), HoursRequired: 2.25,
	}})

	total := 0.0
	for _, d := range days {
		total += d.Scheduled()
	}
	if total != 2 {
		t.Fatalf("placed %v hours, want 2 with the quarter-hour dust dropped", total)
	}
	if sums[0].Status != StatusIncompleteCapacity {
		t.Errorf("status = %s, want incomplete_capacity for the dropped remainder", sums[0].Status)
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateSkipsNearFullDays(t *testing.T) {
	// First assessment leaves 0.25h on the day; the second cannot place a
	// positive half-hour block there and moves on.
	p := newTestPlanner(date(2025, 1, 6), date(2025, 1, 7), nil)
	days := BuildDaySlots(date(2025, 1, 6), date(2025, 1, 7), uniformHours(1.75))

	p.Allocate(days, []model.Assessment{
		{ID: "first", Type: "assignment", DueDate: ptrTime(date(2025, 1, 7)), HoursRequired: 1.5},
		{ID: "second", Type: "assignment", DueDate: ptrTime(date(2025, 1, 7)), HoursRequired: 1.5},
	})

	if days[0].Scheduled() != 1.5 {
		t.Errorf("day 0 should hold only the first assessment's 1.5h, got %v", days[0].Scheduled())
	}
	if days[1].Scheduled() != 1.5 {
		t.Errorf("second assessment should land on day 1, got %v", days[1].Scheduled())
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateConservation(t *testing.T) {
	p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 31), map[string]int{"assignment": 7, "exam": 20})
	days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 31), map[string]float64{
		"monday": 1.75, "tuesday": 0, "wednesday": 2.5, "thursday": 1,
		"friday": 3.25, "saturday": 0.5, "sunday": 2,
	})
	assessments := []model.Assessment{
		{ID: "1", Type: "assignment", DueDate: ptrTime(date(2025, 1, 12)), HoursRequired: 5.5},
		{ID: "2", Type: "exam", DueDate: ptrTime(date(2025, 1, 25)), HoursRequired: 17.25},
		{ID: "3", Type: "assignment", DueDate: ptrTime(date(2025, 1, 15)), HoursRequired: 3},
		{ID: "4", Type: "quiz", DueDate: ptrTime(date(2025, 2, 10)), HoursRequired: 4},
	}

	sums := p.Allocate(days, assessments)
	for _, s := range sums {
		want := 0.0
		for _, a := range assessments {
			if a.ID == s.AssessmentID {
				want = a.HoursRequired
			}
		}
		got := s.ScheduledHours + s.UnscheduledHours
		if diff := got - want; diff > 0.5 || diff < -0.5 {
			t.Errorf("%s: scheduled+unscheduled = %v, want %v within the half-hour grid", s.AssessmentID, got, want)
		}
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateDeterministic(t *testing.T) {
	workAhead := map[string]int{"assignment": 7, "exam": 20}
	assessments := []model.Assessment{
		{ID: "1", CourseCode: "CS201", Type: "assignment", DueDate: ptrTime(date(2025, 1, 12)), HoursRequired: 5.5},
		{ID: "2", CourseCode: "BIO110", Type: "exam", DueDate: ptrTime(date(2025, 1, 25)), HoursRequired: 17},
		{ID: "3", CourseCode: "CS201", Type: "quiz", DueDate: ptrTime(date(2025, 1, 15)), HoursRequired: 3},
	}

	run := func() ([]DaySlot, []AllocationSummary) {
		p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 31), workAhead)
		days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 31), uniformHours(2))
		return days, p.Allocate(days, assessments)
	}

	d1, s1 := run()
	d2, s2 := run()
	if !reflect.DeepEqual(d1, d2) {
		t.Fatalf("day slots differ between identical runs")
	}
	if !reflect.DeepEqual(s1, s2) {
		t.Fatalf("summaries differ between identical runs")
	}
}

func TestAllocateInputOrderWins(t *testing.T) {
	// Two assessments compete for the same 3-day window holding 6h. The
	// first in input order takes it all, whatever its due date.
	p := newTestPlanner(date(2025, 1, 8), date(2025, 1, 10), map[string]int{"exam": 2})
	days := BuildDaySlots(date(2025, 1, 8), date(2025, 1, 10), uniformHours(2))

	sums := p.Allocate(days, []model.Assessment{
		{ID: "greedy", Type: "exam", DueDate: ptrTime(date(2025, 1, 10)), HoursRequired: 6},
		{ID: "starved", Type: "exam", DueDate: ptrTime(date(2025, 1, 10)), HoursRequired: 4},
	})

	if sums[0].Status != StatusOK || sums[0].ScheduledHours != 6 {
		t.Fatalf("first assessment should take the full window: %+v", sums[0])
	}
	if sums[1].Status != StatusIncompleteCapacity || sums[1].ScheduledHours != 0 {
		t.Fatalf("second assessment should find nothing left: %+v", sums[1])
	}
	checkCapacityInvariant(t, days)
}

func TestAllocateDueTimeOfDayIgnored(t *testing.T) {
	p := newTestPlanner(date(2025, 1, 1), date(2025, 1, 10), map[string]int{"assignment": 5})
	mk := func(due time.Time) []AllocationSummary {
		days := BuildDaySlots(date(2025, 1, 1), date(2025, 1, 10), uniformHours(2))
		return p.Allocate(days, []model.Assessment{{
			ID: "a", Type: "assignment", DueDate: ptrTime(due), HoursRequired: 6,
		}})
	}
	midnight := mk(date(2025, 1, 10))
	evening := mk(time.Date(2025, 1, 10, 23, 59, 0, 0, time.UTC))
	if !reflect.DeepEqual(midnight, evening) {
		t.Fatalf("time-of-day on the due date must not change the allocation")
	}
}

func TestRoundHalfHour(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{0.2, 0},
		{0.25, 0.5}, // halves round away from zero
		{0.3, 0.5},
		{1.5, 1.5},
		{1.74, 1.5},
		{1.75, 2},
		{2.1, 2},
	}
	for _, c := range cases {
		if got := roundHalfHour(c.in); got != c.want {
			t.Errorf("roundHalfHour(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
