// Package clock is the single source of "now" for habit bookkeeping.
package clock

import "time"

// DateLayout is the calendar-date format stored in completion history.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in local time.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant. Tests advance it with Set or Add.
type Fixed struct {
	T time.Time
}

func NewFixed(t time.Time) *Fixed { return &Fixed{T: t} }

func (f *Fixed) Now() time.Time { return f.T }

func (f *Fixed) Set(t time.Time) { f.T = t }

// Add moves the clock forward by d.
func (f *Fixed) Add(d time.Duration) { f.T = f.T.Add(d) }

// Today returns the local calendar date of c.Now() as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
