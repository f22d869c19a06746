// Package calendar does the calendar-day arithmetic behind periods. All days
// are normalized to midnight UTC; ranges are inclusive on both ends.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the persisted textual form of a calendar day.
const DateLayout = "2006-01-02"

// parseLayouts are tried in order. The first failure never falls back to
// "today".
var parseLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseError reports a persisted date that matched none of the layouts.
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("calendar: cannot parse date %q", e.Value)
}

// ParseDate reads a persisted date: calendar-date form, then full timestamp,
// then ISO-8601. The result is the calendar day only.
func ParseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, &ParseError{Value: s}
}

// FormatDate renders the persisted textual form of t's calendar day.
func FormatDate(t time.Time) string {
	return Day(t).Format(DateLayout)
}

// Day truncates t to midnight UTC of the same calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t's calendar day lies within the range.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the number of calendar days covered, both ends included.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Overlaps reports whether the two ranges share at least one day.
func (r Range) Overlaps(o Range) bool {
	return !r.End.Before(o.Start) && !o.End.Before(r.Start)
}

func (r Range) String() string {
	return FormatDate(r.Start) + ".." + FormatDate(r.End)
}

// Month returns the calendar month containing t.
func Month(t time.Time) Range {
	start := Date(t.Year(), t.Month(), 1)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

// Quarter returns the calendar quarter containing t.
func Quarter(t time.Time) Range {
	first := time.Month((int(t.Month())-1)/3*3 + 1)
	start := Date(t.Year(), first, 1)
	return Range{Start: start, End: start.AddDate(0, 3, -1)}
}

// NextMonthly starts the day after r ends and runs to the end of that
// day's calendar month.
func NextMonthly(r Range) Range {
	start := r.End.AddDate(0, 0, 1)
	return Range{Start: start, End: Month(start).End}
}

// NextQuarterly starts the day after r ends and runs to the end of that
// day's calendar quarter.
func NextQuarterly(r Range) Range {
	start := r.End.AddDate(0, 0, 1)
	return Range{Start: start, End: Quarter(start).End}
}

// NextCustom repeats the length of r immediately after it.
func NextCustom(r Range) Range {
	start := r.End.AddDate(0, 0, 1)
	return Range{Start: start, End: start.AddDate(0, 0, r.Days()-1)}
}
