// Package daterange computes the month-aligned windows used for monthly averages.
package daterange

import "time"

// Window is a month-aligned span with its inclusive month count.
type Window struct {
	Start  time.Time
	End    time.Time
	Months int // always >= 1
}

// Calculator computes windows relative to a clock.
type Calculator struct {
	Now func() time.Time
}

// New returns a Calculator using the wall clock.
func New() Calculator {
	return Calculator{Now: time.Now}
}

// Fixed returns a Calculator whose clock always reads now.
func Fixed(now time.Time) Calculator {
	return Calculator{Now: func() time.Time { return now }}
}

// Range returns the window from the first day of the month holding the
// earliest date to the end of the current calendar month. The end is
// anchored to the clock, not to the latest date. With no dates the window
// covers only the current month.
func (c Calculator) Range(dates []time.Time) Window {
	now := c.now()
	start := StartOfMonth(now)
	if len(dates) > 0 {
		earliest := dates[0]
		for _, d := range dates[1:] {
			if d.Before(earliest) {
				earliest = d
			}
		}
		start = StartOfMonth(earliest)
	}
	end := EndOfMonth(now)
	return Window{Start: start, End: end, Months: MonthsBetween(start, end)}
}

func (c Calculator) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// MonthsBetween counts calendar months from start to end, both inclusive.
// The result is never below 1.
func MonthsBetween(start, end time.Time) int {
	n := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if n < 1 {
		return 1
	}
	return n
}
