package services

import (
	"time"

	"pos-backend/repositories"
)

const (
	DateLayout       = "2006-01-02"
	defaultRangeDays = 30
	invalidDateRange = "Invalid date range"

	FilterToday     = "today"
	FilterYesterday = "yesterday"
	FilterThisWeek  = "this_week"
	FilterThisMonth = "this_month"
)

// DateRange is a closed interval of whole local days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DateRangeQuery is the query string form of a report period.
type DateRangeQuery struct {
	Filter string `form:"filter"`
	Start  string `form:"start"`
	End    string `form:"end"`
}

func (r DateRange) TimeRange() *repositories.TimeRange {
	return &repositories.TimeRange{From: r.Start, To: r.End}
}

// Days lists the first instant of every day in the range.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	loc := r.Start.Location()
	for d := startOfDay(r.Start, loc); !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func endOfDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayRange covers the single local day containing t.
func DayRange(t time.Time, loc *time.Location) DateRange {
	return DateRange{Start: startOfDay(t, loc), End: endOfDay(t, loc)}
}

// ParseDay accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the local
// day it falls on.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation(DateLayout, value, loc); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, Validation(invalidDateRange)
	}
	return startOfDay(ts, loc), nil
}

// ResolveDateRange turns a preset or explicit bounds into local day bounds.
// Without either it covers the trailing 30 days up to the end of today.
func ResolveDateRange(q DateRangeQuery, now time.Time, loc *time.Location) (DateRange, error) {
	now = now.In(loc)
	switch q.Filter {
	case FilterToday:
		return DayRange(now, loc), nil
	case FilterYesterday:
		return DayRange(now.AddDate(0, 0, -1), loc), nil
	case FilterThisWeek:
		weekStart := now.AddDate(0, 0, -int(now.Weekday()))
		return DateRange{Start: startOfDay(weekStart, loc), End: endOfDay(now, loc)}, nil
	case FilterThisMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return DateRange{Start: monthStart, End: endOfDay(now, loc)}, nil
	case "":
	default:
		return DateRange{}, Validation(invalidDateRange)
	}

	start := startOfDay(now.AddDate(0, 0, -defaultRangeDays), loc)
	end := endOfDay(now, loc)
	if q.Start != "" {
		d, err := ParseDay(q.Start, loc)
		if err != nil {
			return DateRange{}, err
		}
		start = d
	}
	if q.End != "" {
		d, err := ParseDay(q.End, loc)
		if err != nil {
			return DateRange{}, err
		}
		end = endOfDay(d, loc)
	}
	if start.After(end) {
		return DateRange{}, Validation(invalidDateRange)
	}
	return DateRange{Start: start, End: end}, nil
}

// OptionalDateRange resolves q only when the caller asked for a period.
func OptionalDateRange(q DateRangeQuery, now time.Time, loc *time.Location) (*DateRange, error) {
	if q.Filter == "" && q.Start == "" && q.End == "" {
		return nil, nil
	}
	r, err := ResolveDateRange(q, now, loc)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *DateRange) timeRange() *repositories.TimeRange {
	if r == nil {
		return nil
	}
	return r.TimeRange()
}
