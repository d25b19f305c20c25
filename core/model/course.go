package model

import (
	"sort"
	"strconv"
)

// Course is the parsed syllabus document for one course, as produced by the
// syllabus extraction pipeline and stored per user.
type Course struct {
	CourseInfo  CourseInfo  `json:"course_info"`
	Assessments Assessments `json:"assessments"`
}

// CourseInfo identifies a course.
type CourseInfo struct {
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
}

// Assessments holds the graded-item breakdown of a course.
type Assessments struct {
	Breakdown []CourseAssessment `json:"breakdown"`
}

// CourseAssessment is one raw graded item from a syllabus. DueDate keeps the
// textual form so that items without a date survive round-trips intact.
type CourseAssessment struct {
	Type    string  `json:"type"`
	Title   string  `json:"title,omitempty"`
	DueDate string  `json:"due_date,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

// AssessmentsFromCourses flattens course documents into an engine-ready
// assessment list. Types are normalized, required hours come from the
// per-type base-hours table and lead-time overrides from the work-ahead
// table when the type is configured there. IDs are assigned sequentially.
// When courseCodes is nil the courses are visited in sorted key order so
// that repeated calls produce identical lists.
func AssessmentsFromCourses(courses map[string]Course, courseCodes []string, baseHours map[string]float64, workAhead map[string]int) []Assessment {
	if courseCodes == nil {
		for code := range courses {
			courseCodes = append(courseCodes, code)
		}
		sort.Strings(courseCodes)
	}
	var out []Assessment
	for _, code := range courseCodes {
		course, ok := courses[code]
		if !ok {
			continue
		}
		courseCode := course.CourseInfo.CourseCode
		if courseCode == "" {
			courseCode = code
		}
		for _, raw := range course.Assessments.Breakdown {
			atype := NormalizeType(raw.Type)
			a := Assessment{
				ID:            strconv.Itoa(len(out)),
				CourseCode:    courseCode,
				Type:          atype,
				Title:         raw.Title,
				HoursRequired: baseHours[atype],
			}
			if a.Title == "" {
				a.Title = raw.Type
			}
			if raw.DueDate != "" {
				if due, err := ParseDueDate(raw.DueDate); err == nil {
					a.DueDate = &due
				}
			}
			if days, ok := workAhead[atype]; ok {
				d := days
				a.WorkAheadOverride = &d
			}
			out = append(out, a)
		}
	}
	return out
}
