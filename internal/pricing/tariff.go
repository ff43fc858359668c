package pricing

import (
	"fmt"
	"time"
)

// Session-length codes the track sells. The code reads as "laps or maximum
// minutes": 10 laps or 10 minutes, whichever ends first.
const (
	TaxRate          = 0.19
	HolidaySurcharge = 1.15
)

var SessionCodes = []int{10, 15, 20}

// BasePrice returns the tariff for a session-length code in whole currency
// units. Unrecognized codes price at 0.
func BasePrice(code int) float64 {
	switch code {
	case 10:
		return 15000
	case 15:
		return 20000
	case 20:
		return 25000
	}
	return 0
}

// SessionDuration returns the track-time block a session code reserves.
// Unrecognized codes resolve to zero; the booking pipeline accepts them the
// same way the tariff table prices them at zero.
func SessionDuration(code int) time.Duration {
	switch code {
	case 10:
		return 30 * time.Minute
	case 15:
		return 35 * time.Minute
	case 20:
		return 40 * time.Minute
	}
	return 0
}

// SessionLabel is the customer-facing name of a session-length code, used on
// vouchers and revenue reports.
func SessionLabel(code int) string {
	return fmt.Sprintf("%d vueltas o máx. %d minutos", code, code)
}

// DisplayDuration is the calendar-view variant of SessionDuration: unknown
// codes fall back to code+20 minutes so stored reservations always render
// with a nonzero span.
func DisplayDuration(code int) time.Duration {
	if d := SessionDuration(code); d > 0 {
		return d
	}
	return time.Duration(code+20) * time.Minute
}
