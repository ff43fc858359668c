package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsHoliday(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"regular weekday", day(2026, time.March, 4), false}, // Wednesday
		{"saturday", day(2026, time.March, 7), true},
		{"sunday", day(2026, time.March, 8), true},
		{"new year", day(2026, time.January, 1), true},
		{"labour day", day(2026, time.May, 1), true},
		{"independence day", day(2026, time.September, 18), true},
		{"army day", day(2026, time.September, 19), true},
		{"christmas", day(2026, time.December, 25), true},
		{"christmas eve", day(2026, time.December, 24), false}, // Thursday
		{"fixed holiday in another year", day(2030, time.May, 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHoliday(tt.date))
		})
	}
}

func TestOpeningTime(t *testing.T) {
	weekday := OpeningTime(day(2026, time.March, 4))
	assert.Equal(t, 14, weekday.Hour())

	saturday := OpeningTime(day(2026, time.March, 7))
	assert.Equal(t, 10, saturday.Hour())

	holiday := OpeningTime(day(2026, time.September, 18))
	assert.Equal(t, 10, holiday.Hour())
}

func TestClosingTime(t *testing.T) {
	closing := ClosingTime(day(2026, time.March, 4))
	assert.Equal(t, 22, closing.Hour())
	assert.Equal(t, 4, closing.Day())
}

func TestWithinOperatingHours(t *testing.T) {
	// weekday, opens 14:00
	at := func(h, m int) time.Time {
		return time.Date(2026, time.March, 4, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside window", at(15, 0), at(15, 30), true},
		{"exactly at open", at(14, 0), at(14, 30), true},
		{"ends exactly at close", at(21, 30), at(22, 0), true},
		{"starts before open", at(13, 30), at(14, 0), false},
		{"ends after close", at(21, 45), at(22, 15), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinOperatingHours(tt.start, tt.end))
		})
	}

	// weekend opens earlier
	saturday := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
	assert.True(t, WithinOperatingHours(saturday, saturday.Add(30*time.Minute)))
}
