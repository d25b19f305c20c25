package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"studyplan/core/model"
	"studyplan/core/planner"
	"studyplan/infra/store"
	"studyplan/pkg/export"
)

// Optimizer runs the allocation engine for one user. Implemented by the
// application service; handlers stay ignorant of how plans are computed.
type Optimizer interface {
	// Optimize builds and persists a fresh plan. When overrides is non-nil
	// it is planned as-is instead of deriving assessments from the stored
	// course documents.
	Optimize(ctx context.Context, userID string, overrides []model.Assessment) (planner.Plan, error)
	// Assessments derives the user's assessment list from stored courses
	// and settings, as Optimize would see it.
	Assessments(ctx context.Context, userID string) ([]model.Assessment, error)
}

// NewMux wires every API route onto a fresh ServeMux. Requests must carry
// an Authorization header with "Bearer <token>" when token is non-empty,
// and identify the user through the X-User-ID header.
func NewMux(st store.Store, opt Optimizer, token, calendarName string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/settings", NewSettingsHandler(st, token))
	mux.Handle("/api/courses", NewCoursesHandler(st, token))
	mux.Handle("/api/completions", NewCompletionsHandler(st, token))
	mux.Handle("/api/plan", NewPlanHandler(st, opt, token))
	mux.Handle("/api/plan/export", NewExportHandler(st, opt, token, calendarName))
	mux.Handle("/api/user", NewUserDataHandler(st, token))
	// Convenience alias so calendar clients can subscribe to a .ics URL.
	mux.Handle("/api/plan/export.ics", NewExportHandler(st, opt, token, calendarName))
	return mux
}

func authorized(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+token
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		http.Error(w, "missing X-User-ID header", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// documentHandler serves GET and PUT for one stored document kind. newDoc
// returns the value a GET falls back to when nothing is stored yet, and
// decode validates the PUT body.
func documentHandler(st store.Store, token, kind string, newDoc func() any, decode func(*json.Decoder) (any, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		switch r.Method {
		case http.MethodGet:
			doc := newDoc()
			if err := st.Load(r.Context(), uid, kind, doc); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeJSON(w, doc)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, doc)
		case http.MethodPut:
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			doc, err := decode(dec)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := st.Save(r.Context(), uid, kind, doc); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, doc)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// NewSettingsHandler serves the user's settings document via
// GET/PUT /api/settings. GET before any PUT returns the defaults.
func NewSettingsHandler(st store.Store, token string) http.Handler {
	return documentHandler(st, token, store.KindSettings,
		func() any {
			s := model.DefaultSettings()
			return &s
		},
		func(dec *json.Decoder) (any, error) {
			var s model.Settings
			if err := dec.Decode(&s); err != nil {
				return nil, err
			}
			if err := s.Validate(); err != nil {
				return nil, err
			}
			return s, nil
		})
}

// NewCoursesHandler serves the user's course catalogue via
// GET/PUT/DELETE /api/courses. DELETE removes the course named by the
// "course" query parameter and returns the remaining catalogue.
func NewCoursesHandler(st store.Store, token string) http.Handler {
	base := documentHandler(st, token, store.KindCourses,
		func() any { return &map[string]model.Course{} },
		func(dec *json.Decoder) (any, error) {
			var courses map[string]model.Course
			if err := dec.Decode(&courses); err != nil {
				return nil, err
			}
			for code, c := range courses {
				if c.CourseInfo.CourseCode == "" {
					c.CourseInfo.CourseCode = code
					courses[code] = c
				}
			}
			return courses, nil
		})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			base.ServeHTTP(w, r)
			return
		}
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		code := r.URL.Query().Get("course")
		if code == "" {
			http.Error(w, "missing course parameter", http.StatusBadRequest)
			return
		}
		remaining, err := store.RemoveCourse(r.Context(), st, uid, code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, remaining)
	})
}

// NewCompletionsHandler serves the per-day task check-off document via
// GET/PUT /api/completions.
func NewCompletionsHandler(st store.Store, token string) http.Handler {
	return documentHandler(st, token, store.KindCompletions,
		func() any { return &store.Completions{} },
		func(dec *json.Decoder) (any, error) {
			var c store.Completions
			if err := dec.Decode(&c); err != nil {
				return nil, err
			}
			return c, nil
		})
}

// NewUserDataHandler serves every document of the user in one response via
// GET /api/user, the bulk fetch a client issues when opening a session.
// Documents never stored yet come back as their zero value.
func NewUserDataHandler(st store.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		data, err := store.LoadUserData(r.Context(), st, uid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, data)
	})
}

// planRequest optionally carries inline assessments to plan instead of the
// stored course documents.
type planRequest struct {
	Assessments []model.Assessment `json:"assessments"`
}

// NewPlanHandler runs the engine on POST /api/plan and returns the stored
// plan on GET /api/plan.
func NewPlanHandler(st store.Store, opt Optimizer, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		switch r.Method {
		case http.MethodPost:
			var req planRequest
			if r.ContentLength != 0 {
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
			}
			p, err := opt.Optimize(r.Context(), uid, req.Assessments)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			writeJSON(w, p)
		case http.MethodGet:
			var p planner.Plan
			if err := st.Load(r.Context(), uid, store.KindSchedule, &p); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					http.Error(w, "no plan generated yet", http.StatusNotFound)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, p)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// NewExportHandler renders the stored plan via GET /api/plan/export.
// The "format" query parameter selects ics (default), csv or json.
func NewExportHandler(st store.Store, opt Optimizer, token, calendarName string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authorized(r, token) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var p planner.Plan
		if err := st.Load(r.Context(), uid, store.KindSchedule, &p); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "no plan generated yet", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "ics"
		}
		switch format {
		case "ics":
			assessments, err := opt.Assessments(r.Context(), uid)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/calendar")
			w.Header().Set("Content-Disposition", `attachment; filename="study_schedule.ics"`)
			if err := export.WriteICS(w, p, assessments, calendarName); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case "csv":
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="study_schedule.csv"`)
			if err := export.WriteCSV(w, p); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case "json":
			w.Header().Set("Content-Type", "application/json")
			if err := export.WriteJSON(w, p); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		default:
			http.Error(w, fmt.Sprintf("unsupported format %q", format), http.StatusBadRequest)
		}
	})
}
