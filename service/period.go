package service

import "time"

// Named period keywords accepted by the list/dashboard/export filters.
const (
	PeriodThisMonth = "this_month"
	PeriodLastMonth = "last_month"
	PeriodThisYear  = "this_year"
)

// ResolvePeriod maps a period keyword to a concrete [start, end] date pair
// relative to today. Unrecognized keywords (including "custom") return
// (nil, nil): the caller should use its explicit bounds instead.
func ResolvePeriod(period string, today time.Time) (*time.Time, *time.Time) {
	today = truncateToDay(today)
	switch period {
	case PeriodThisMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
		return &start, &end
	case PeriodLastMonth:
		firstThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := firstThis.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		return &start, &end
	case PeriodThisYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
		end := time.Date(today.Year(), 12, 31, 0, 0, 0, 0, today.Location())
		return &start, &end
	}
	return nil, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
