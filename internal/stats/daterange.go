package stats

import (
	"time"

	"github.com/pocketsalon/salon-manager/internal/models"
)

// RangeType selects a reporting window relative to now.
type RangeType string

const (
	RangeAll         RangeType = "all"
	RangeThisMonth   RangeType = "thisMonth"
	RangeLastMonth   RangeType = "lastMonth"
	RangeLast3Months RangeType = "last3Months"
	RangeLast6Months RangeType = "last6Months"
	RangeCustom      RangeType = "custom"
)

func ParseRange(s string) RangeType {
	switch RangeType(s) {
	case RangeThisMonth, RangeLastMonth, RangeLast3Months, RangeLast6Months, RangeCustom:
		return RangeType(s)
	default:
		return RangeAll
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// monthsBack steps n whole months back from t, clamping the day-of-month
// to the target month's length. Plain AddDate normalizes instead: May 31
// minus one month lands on May 1, not in April.
func monthsBack(t time.Time, n int) time.Time {
	first := startOfMonth(t).AddDate(0, -n, 0)
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Resolve turns a range type into an inclusive [start, end] pair as of
// now. "all" runs from the epoch to an effectively unbounded future.
// "custom" is not resolvable here; callers route it to ResolveCustom.
func Resolve(rt RangeType, now time.Time) (time.Time, time.Time) {
	switch rt {
	case RangeThisMonth:
		return startOfMonth(now), endOfMonth(now)
	case RangeLastMonth:
		lastMonth := startOfMonth(now).AddDate(0, -1, 0)
		return startOfMonth(lastMonth), endOfMonth(lastMonth)
	case RangeLast3Months:
		return monthsBack(now, 3), now
	case RangeLast6Months:
		return monthsBack(now, 6), now
	default:
		return time.Unix(0, 0), time.Date(2100, time.January, 1, 0, 0, 0, 0, now.Location())
	}
}

// ResolveCustom parses explicit YYYY-MM-DD bounds into an inclusive
// [start of from-day, end of to-day] pair.
func ResolveCustom(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDay, err := time.ParseInLocation("2006-01-02", to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := endDay.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}

// Label names a range for export file names.
func Label(rt RangeType) string {
	switch rt {
	case RangeThisMonth:
		return "this-month"
	case RangeLastMonth:
		return "last-month"
	case RangeLast3Months:
		return "last-3-months"
	case RangeLast6Months:
		return "last-6-months"
	case RangeCustom:
		return "custom"
	default:
		return "all"
	}
}

// FilterByRange keeps records whose date falls inside [start, end].
func FilterByRange(records []models.ServiceRecord, start, end time.Time) []models.ServiceRecord {
	out := make([]models.ServiceRecord, 0, len(records))
	for _, r := range records {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}
