// Package timewindow resolves the calendar month or year containing an instant.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// MonthLabelLayout formats a month as "January 2024".
const MonthLabelLayout = "January 2006"

var ErrUnknownGranularity = errors.New("unknown window granularity")

type Granularity string

const (
	Month Granularity = "month"
	Year  Granularity = "year"
)

// Window is an inclusive [Start, End] interval. End is the last representable
// instant before the next period starts.
type Window struct {
	Start time.Time
	End   time.Time
}

// Resolve returns the window of granularity g that contains now, in now's location.
func Resolve(now time.Time, g Granularity) (Window, error) {
	switch g {
	case Month:
		return CurrentMonth(now), nil
	case Year:
		return CurrentYear(now), nil
	default:
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownGranularity, g)
	}
}

func CurrentMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

func CurrentYear(now time.Time) Window {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return Window{
		Start: start,
		End:   start.AddDate(1, 0, 0).Add(-time.Nanosecond),
	}
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthLabel formats t's month in t's location, e.g. "March 2024".
func MonthLabel(t time.Time) string {
	return t.Format(MonthLabelLayout)
}

// MonthLabelForUnix formats the month of a unix-seconds timestamp in loc.
func MonthLabelForUnix(sec int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return MonthLabel(time.Unix(sec, 0).In(loc))
}
