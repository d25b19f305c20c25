package planner

// Package planner implements study-hour allocation over a semester calendar.
// It materializes one capacity slot per calendar day, then greedily fills
// each assessment's work window in half-hour increments, never exceeding a
// day's capacity. Outcomes are reported per assessment as status codes;
// plans can be exported to JSON, CSV or iCalendar.
