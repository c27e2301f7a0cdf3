package ledger

import (
	"time"

	"famledger/models"
)

// Window is the active aggregation period in local time. End is inclusive:
// the week window ends at Sunday 23:59:59.999, matching the comparison the
// stored documents were written against, so a record stamped exactly at
// that instant still belongs to the week.
type Window struct {
	Granularity models.Granularity `json:"granularity"`
	Start       time.Time          `json:"start"`
	End         time.Time          `json:"end"`
}

// Resolve computes the window containing ref for the given granularity.
// Weeks start on Monday; months run first day through last day.
func Resolve(g models.Granularity, ref time.Time) Window {
	switch g {
	case models.GranularityWeek:
		monday := startOfDay(ref).AddDate(0, 0, -mondayOffset(ref))
		return Window{
			Granularity: g,
			Start:       monday,
			End:         monday.AddDate(0, 0, 7).Add(-time.Millisecond),
		}
	case models.GranularityMonth:
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return Window{
			Granularity: g,
			Start:       first,
			End:         first.AddDate(0, 1, 0).Add(-time.Millisecond),
		}
	default:
		start := startOfDay(ref)
		return Window{
			Granularity: models.GranularityDay,
			Start:       start,
			End:         start.AddDate(0, 0, 1).Add(-time.Millisecond),
		}
	}
}

// Contains reports whether instant t falls inside the window, using the
// per-granularity comparison: calendar-day equality for day, the inclusive
// Monday-to-Sunday span for week, month+year equality for month.
func (w Window) Contains(t time.Time) bool {
	switch w.Granularity {
	case models.GranularityWeek:
		return !t.Before(w.Start) && !t.After(w.End)
	case models.GranularityMonth:
		return t.Year() == w.Start.Year() && t.Month() == w.Start.Month()
	default:
		return sameDay(t, w.Start)
	}
}

// MatchesRange reports whether an allocation's validity interval matches
// the window: its start day for day windows, both endpoints inside the
// week for week windows, month+year of the start for month windows.
func (w Window) MatchesRange(start, end time.Time) bool {
	switch w.Granularity {
	case models.GranularityWeek:
		return w.Contains(start) && w.Contains(end)
	case models.GranularityMonth:
		return start.Year() == w.Start.Year() && start.Month() == w.Start.Month()
	default:
		return sameDay(start, w.Start)
	}
}

// Shift moves a reference date by delta units of the granularity. Month
// arithmetic clamps the day-of-month, so Jan 31 shifted back one month
// lands on Dec 31 rather than overflowing.
func Shift(g models.Granularity, ref time.Time, delta int) time.Time {
	switch g {
	case models.GranularityWeek:
		return ref.AddDate(0, 0, 7*delta)
	case models.GranularityMonth:
		return addMonthsClamped(ref, delta)
	default:
		return ref.AddDate(0, 0, delta)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOffset returns the number of days since the most recent Monday.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	target := first.AddDate(0, months, 0)
	day := t.Day()
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
