package store

import (
	"context"
	"errors"

	"studyplan/core/model"
	"studyplan/core/planner"
)

// Document kinds persisted per user. Each user holds at most one document
// of each kind; saves replace the previous revision wholesale.
const (
	KindSettings    = "settings"
	KindCourses     = "courses"
	KindSchedule    = "schedule"
	KindCompletions = "completions"
)

// ErrNotFound is returned when a user has no document of the requested kind.
var ErrNotFound = errors.New("document not found")

// Completions maps a YYYY-MM-DD date to the task keys checked off that day.
type Completions map[string][]string

// Store persists per-user documents. The planning engine has no awareness
// of persistence; documents are stored and returned verbatim.
type Store interface {
	Save(ctx context.Context, userID, kind string, doc any) error
	// Load unmarshals the stored document into out. Returns ErrNotFound
	// when the user has no document of this kind.
	Load(ctx context.Context, userID, kind string, out any) error
	Delete(ctx context.Context, userID, kind string) error
	Close() error
}

// UserData aggregates all documents of one user.
type UserData struct {
	Settings    model.Settings          `json:"settings"`
	Courses     map[string]model.Course `json:"courses"`
	Schedule    planner.Plan            `json:"schedule"`
	Completions Completions             `json:"completions"`
}

// LoadUserData loads every document kind for the user. Missing documents
// are left at their zero value.
func LoadUserData(ctx context.Context, s Store, userID string) (UserData, error) {
	var data UserData
	for kind, out := range map[string]any{
		KindSettings:    &data.Settings,
		KindCourses:     &data.Courses,
		KindSchedule:    &data.Schedule,
		KindCompletions: &data.Completions,
	} {
		if err := s.Load(ctx, userID, kind, out); err != nil && !errors.Is(err, ErrNotFound) {
			return UserData{}, err
		}
	}
	return data, nil
}

// RemoveCourse deletes one course from the user's course document and saves
// the result. Removing an unknown code is a no-op.
func RemoveCourse(ctx context.Context, s Store, userID, courseCode string) (map[string]model.Course, error) {
	var courses map[string]model.Course
	if err := s.Load(ctx, userID, KindCourses, &courses); err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]model.Course{}, nil
		}
		return nil, err
	}
	delete(courses, courseCode)
	if err := s.Save(ctx, userID, KindCourses, courses); err != nil {
		return nil, err
	}
	return courses, nil
}
