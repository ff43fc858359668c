package pricing

import "time"

// Fixed Chilean holidays the track observes, as month/day pairs.
var fixedHolidays = []struct {
	month time.Month
	day   int
}{
	{time.January, 1},
	{time.May, 1},
	{time.September, 18},
	{time.September, 19},
	{time.December, 25},
}

const (
	weekendOpeningHour = 10
	weekdayOpeningHour = 14
	closingHour        = 22
)

// IsHoliday reports whether the track charges holiday rates on the given
// date: Saturdays, Sundays and the fixed holiday set.
func IsHoliday(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	for _, h := range fixedHolidays {
		if date.Month() == h.month && date.Day() == h.day {
			return true
		}
	}
	return false
}

// OpeningTime returns the opening instant for the calendar day of date:
// 10:00 on weekends and holidays, 14:00 otherwise.
func OpeningTime(date time.Time) time.Time {
	hour := weekdayOpeningHour
	if IsHoliday(date) {
		hour = weekendOpeningHour
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, date.Location())
}

// ClosingTime returns the closing instant for the calendar day of date,
// 22:00 every day.
func ClosingTime(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, closingHour, 0, 0, 0, date.Location())
}

// WithinOperatingHours reports whether the session [start, end) fits the
// operating window of start's calendar day.
func WithinOperatingHours(start, end time.Time) bool {
	return !start.Before(OpeningTime(start)) && !end.After(ClosingTime(start))
}
