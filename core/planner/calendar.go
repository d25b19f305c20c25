package planner

import (
	"strings"
	"time"

	"studyplan/core/model"
)

// DaySlot is one calendar day's study-capacity bucket. Tasks accumulate in
// allocation order and their hours never exceed Capacity.
type DaySlot struct {
	Date     time.Time   `json:"date"`
	Weekday  string      `json:"weekday"`
	Capacity float64     `json:"capacity"`
	Tasks    []StudyTask `json:"tasks"`
}

// Scheduled returns the hours already allocated to the day.
func (d *DaySlot) Scheduled() float64 {
	total := 0.0
	for _, t := range d.Tasks {
		total += t.Hours
	}
	return total
}

// Remaining returns the free capacity left on the day.
func (d *DaySlot) Remaining() float64 {
	rem := d.Capacity - d.Scheduled()
	if rem < 0 {
		return 0
	}
	return rem
}

// BuildDaySlots materializes one empty DaySlot per date from start to end
// inclusive, in ascending order. Capacity is looked up in dailyHours by
// lowercase weekday name; missing weekdays default to zero. The caller is
// responsible for start <= end.
func BuildDaySlots(start, end time.Time, dailyHours map[string]float64) []DaySlot {
	hours := make(map[string]float64, len(dailyHours))
	for day, h := range dailyHours {
		hours[strings.ToLower(day)] = h
	}
	var days []DaySlot
	for cur := model.DateOf(start); !cur.After(model.DateOf(end)); cur = cur.AddDate(0, 0, 1) {
		weekday := strings.ToLower(cur.Weekday().String())
		days = append(days, DaySlot{
			Date:     cur,
			Weekday:  weekday,
			Capacity: hours[weekday],
			Tasks:    []StudyTask{},
		})
	}
	return days
}
