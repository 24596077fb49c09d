// Package timegrid produces rental start-time candidates for a day given a
// location's opening hours and a rental duration. Generation is pure: every
// call recomputes the grid from its inputs and failures surface as an empty
// grid, never an error.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultStepMinutes is the granularity of start candidates.
const DefaultStepMinutes = 30

// TimeOfDay is minutes from midnight.
type TimeOfDay int

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("timegrid: invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timegrid: invalid time of day %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("timegrid: invalid time of day %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("timegrid: time of day %q out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

// String renders the time of day as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// At anchors the time of day on the calendar date of ref.
func (t TimeOfDay) At(ref time.Time) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, ref.Location())
}

// Hours is a location's daily opening window. The same window applies every
// day of the week.
type Hours struct {
	Open  TimeOfDay
	Close TimeOfDay
}

// Contains reports whether the instant falls within the window on its own day,
// boundaries included.
func (h Hours) Contains(t time.Time) bool {
	minutes := TimeOfDay(t.Hour()*60 + t.Minute())
	return minutes >= h.Open && minutes <= h.Close
}

// Slot is one start candidate. Invalid slots may still be rendered greyed out
// but must never be selected.
type Slot struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Valid bool      `json:"valid"`
}

// SpanFits reports whether a rental spanning [start, end] stays inside the
// opening window on every day it touches: start and end on their own days, and
// the start's time of day on every intermediate day.
func SpanFits(h Hours, start, end time.Time) bool {
	if !h.Contains(start) || !h.Contains(end) {
		return false
	}
	days := int((end.Sub(start) + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	for i := 1; i < days; i++ {
		mid := start.AddDate(0, 0, i)
		if !h.Contains(mid) {
			return false
		}
	}
	return true
}

// Generate produces the ordered start grid for date. Candidates run from the
// opening time (or minStart rounded up to the step when minStart falls on the
// same date, never before opening) to the closing time. A candidate is valid
// when the full rental span fits the opening window. The empty grid is a
// normal result.
func Generate(date time.Time, h Hours, rental time.Duration, stepMinutes int, minStart *time.Time) []Slot {
	if rental <= 0 {
		return nil
	}
	if stepMinutes <= 0 {
		stepMinutes = DefaultStepMinutes
	}
	step := time.Duration(stepMinutes) * time.Minute

	open := h.Open.At(date)
	closeAt := h.Close.At(date)
	if !open.Before(closeAt) {
		return nil
	}

	cursor := open
	if minStart != nil && sameDate(*minStart, date) {
		from := roundUpToStep(*minStart, stepMinutes)
		if from.After(cursor) {
			cursor = from
		}
	}

	var slots []Slot
	for !cursor.After(closeAt) {
		end := cursor.Add(rental)
		slots = append(slots, Slot{
			Label: cursor.Format("15:04"),
			Start: cursor,
			End:   end,
			Valid: SpanFits(h, cursor, end),
		})
		cursor = cursor.Add(step)
	}
	return slots
}

// ValidOnly filters the grid down to selectable slots.
func ValidOnly(slots []Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Valid {
			out = append(out, s)
		}
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func roundUpToStep(t time.Time, stepMinutes int) time.Time {
	t = t.Truncate(time.Minute)
	rem := t.Minute() % stepMinutes
	if rem != 0 {
		t = t.Add(time.Duration(stepMinutes-rem) * time.Minute)
	}
	return t
}
