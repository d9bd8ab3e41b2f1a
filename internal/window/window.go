// Package window computes the collection-date window for bookings.  All
// arithmetic happens in a fixed UTC+8 civil calendar regardless of the
// host timezone: a customer picking a date near midnight must get the
// same day whether the process runs in Kuala Lumpur or in a UTC
// container.  The same window is applied by the calendar grid shown to
// customers and re-checked server-side on every create.
package window

import (
    "errors"
    "time"
)

// Zone is the civil calendar for all collection dates.  The platform
// operates in Malaysia/Singapore time and never observes DST.
var Zone = time.FixedZone("UTC+8", 8*60*60)

// DateLayout is the canonical wire format for collection dates.
const DateLayout = "2006-01-02"

// monthsAhead is how far into the future a collection date may lie.
const monthsAhead = 3

// ErrBadDate is returned by Parse for input that is not a canonical
// YYYY-MM-DD string.
var ErrBadDate = errors.New("invalid collection date")

// Window is an inclusive [Min, Max] interval of civil days.  Both
// bounds are midnights in Zone; comparisons happen at day granularity
// so the time-of-day of the instant under test never matters.
type Window struct {
    Min time.Time
    Max time.Time
}

// Today truncates an instant to its civil midnight in Zone.
func Today(now time.Time) time.Time {
    y, m, d := now.In(Zone).Date()
    return time.Date(y, m, d, 0, 0, 0, 0, Zone)
}

// Current returns the booking window for the given instant: today
// through today plus three calendar months, both ends inclusive.
// Month arithmetic normalises overflow the way AddDate does, so e.g.
// Nov 30 + 3 months lands on Mar 2.
func Current(now time.Time) Window {
    today := Today(now)
    return Window{Min: today, Max: today.AddDate(0, monthsAhead, 0)}
}

// Contains reports whether the given instant's civil day lies inside
// the window, inclusive of both ends.
func (w Window) Contains(t time.Time) bool {
    d := Today(t)
    return !d.Before(w.Min) && !d.After(w.Max)
}

// Disabled is the calendar-grid predicate: true when a day must not be
// selectable because it falls outside the window.
func (w Window) Disabled(t time.Time) bool {
    return !w.Contains(t)
}

// Format renders an instant's civil day as canonical YYYY-MM-DD in
// Zone.  Callers must use this rather than Format on the raw time so a
// selection made just before local midnight does not shift by a day.
func Format(t time.Time) string {
    return t.In(Zone).Format(DateLayout)
}

// Parse converts a canonical YYYY-MM-DD string into its civil midnight
// in Zone.  Anything but the exact layout returns ErrBadDate.
func Parse(s string) (time.Time, error) {
    t, err := time.ParseInLocation(DateLayout, s, Zone)
    if err != nil {
        return time.Time{}, ErrBadDate
    }
    return t, nil
}

// MonthGrid describes one displayed calendar month: the weekday offset
// of day 1 (0 = Sunday, matching a Sunday-first grid) and the number of
// days in the month.
type MonthGrid struct {
    Year        int
    Month       time.Month
    FirstOffset int
    Days        int
}

// Grid computes the layout for a displayed month.  The day count is
// derived by rolling to day zero of the following month, which handles
// leap Februaries without a lookup table.
func Grid(year int, month time.Month) MonthGrid {
    first := time.Date(year, month, 1, 0, 0, 0, 0, Zone)
    last := time.Date(year, month+1, 0, 0, 0, 0, 0, Zone)
    return MonthGrid{
        Year:        year,
        Month:       month,
        FirstOffset: int(first.Weekday()),
        Days:        last.Day(),
    }
}

// Day returns the civil midnight of the n-th day (1-based) of the grid
// month.  Passing a day beyond the month's length normalises forward,
// so callers should stay within [1, Days].
func (g MonthGrid) Day(n int) time.Time {
    return time.Date(g.Year, g.Month, n, 0, 0, 0, 0, Zone)
}
