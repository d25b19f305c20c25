package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"studyplan/core/planner"
)

// WriteJSON writes the plan to w in JSON format.
func WriteJSON(w io.Writer, plan planner.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteCSV writes the plan's study blocks to w, one row per task per day.
func WriteCSV(w io.Writer, plan planner.Plan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "weekday", "course_code", "type", "title", "due_date", "hours"}); err != nil {
		return err
	}
	for _, day := range plan.Days {
		for _, t := range day.Tasks {
			rec := []string{
				day.Date,
				day.Weekday,
				t.CourseCode,
				t.Type,
				t.Title,
				t.DueDate,
				strconv.FormatFloat(t.Hours, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
