package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourses() map[string]Course {
	return map[string]Course{
		"CS201": {
			CourseInfo: CourseInfo{CourseCode: "CS201", CourseName: "Data Structures"},
			Assessments: Assessments{Breakdown: []CourseAssessment{
				{Type: "Assignment 1", DueDate: "2025-09-19", Weight: 10},
				{Type: "Final Exam", Title: "Final", DueDate: "2025-12-10T09:00:00", Weight: 40},
			}},
		},
		"BIO110": {
			CourseInfo: CourseInfo{CourseCode: "BIO110", CourseName: "Cell Biology"},
			Assessments: Assessments{Breakdown: []CourseAssessment{
				{Type: "Lab Report", Weight: 15},
			}},
		},
	}
}

func TestAssessmentsFromCourses(t *testing.T) {
	base := map[string]float64{"assignment": 4, "final": 20}
	ahead := map[string]int{"assignment": 7}

	got := AssessmentsFromCourses(sampleCourses(), nil, base, ahead)
	require.Len(t, got, 3)

	// Sorted course order: BIO110 before CS201.
	assert.Equal(t, "BIO110", got[0].CourseCode)
	assert.Equal(t, "lab", got[0].Type)
	assert.Equal(t, "Lab Report", got[0].Title, "title falls back to the raw type")
	assert.Nil(t, got[0].DueDate)
	assert.Zero(t, got[0].HoursRequired, "unconfigured type gets zero base hours")

	a1 := got[1]
	assert.Equal(t, "assignment", a1.Type)
	assert.Equal(t, 4.0, a1.HoursRequired)
	require.NotNil(t, a1.DueDate)
	require.NotNil(t, a1.WorkAheadOverride)
	assert.Equal(t, 7, *a1.WorkAheadOverride)

	fin := got[2]
	assert.Equal(t, "Final", fin.Title)
	assert.Equal(t, 20.0, fin.HoursRequired)
	assert.Nil(t, fin.WorkAheadOverride, "type absent from the work-ahead table stays on the engine default")
}

func TestAssessmentsFromCoursesDeterministicIDs(t *testing.T) {
	a := AssessmentsFromCourses(sampleCourses(), nil, nil, nil)
	b := AssessmentsFromCourses(sampleCourses(), nil, nil, nil)
	require.Equal(t, a, b)
	for i, it := range a {
		assert.Equal(t, it.ID, b[i].ID)
	}
}
