package pricing

import (
	"math"
	"time"

	"kartrm/pkg/model"
)

// Participant is one attendee as the quote sees them: resolved customer data
// plus the month-to-date visit count already computed for them.
type Participant struct {
	Name          string
	Rut           string
	BirthDate     time.Time
	MonthlyVisits int
}

// Options carries the admin-only pricing overrides. CustomPrice replaces the
// tariff base price entirely (and skips the holiday surcharge);
// SpecialDiscount replaces the computed discount when it is strictly larger.
// Both are ignored unless Admin is set.
type Options struct {
	Admin           bool
	CustomPrice     float64
	SpecialDiscount float64
}

// Quote prices one reservation. It returns one breakdown row per participant
// in encounter order and the grand total with tax. Monetary figures in the
// rows are rounded to whole units; the grand total is the sum of the rounded
// row totals.
//
// Discount resolution per participant: the better of the group and frequency
// discounts, overridden to 50% for birthday participants while the
// reservation's birthday allowance lasts, then overridden by the admin
// special discount when that is strictly greater.
func Quote(date time.Time, code int, partySize int, participants []Participant, opts Options) ([]model.BreakdownRow, int64) {
	base := BasePrice(code)
	if opts.Admin && opts.CustomPrice > 0 {
		base = opts.CustomPrice
	} else if IsHoliday(date) {
		base *= HolidaySurcharge
	}

	groupDiscount := GroupDiscount(partySize)
	allowance := BirthdayAllowance(partySize)

	special := 0
	if opts.Admin && opts.SpecialDiscount > 0 {
		special = int(opts.SpecialDiscount)
	}

	rows := make([]model.BreakdownRow, 0, len(participants))
	var grandTotal int64
	birthdaysGranted := 0

	for _, p := range participants {
		frequencyDiscount := FrequencyDiscount(p.MonthlyVisits)

		applied := max(groupDiscount, frequencyDiscount)

		birthday := false
		if sameMonthDay(p.BirthDate, date) && birthdaysGranted < allowance {
			applied = birthdayDiscount
			birthday = true
			birthdaysGranted++
		}

		if opts.Admin && opts.SpecialDiscount > 0 && opts.SpecialDiscount > float64(applied) {
			applied = special
		}

		price := base * (1 - float64(applied)/100)
		tax := price * TaxRate
		total := price + tax

		row := model.BreakdownRow{
			Name:              p.Name,
			BasePrice:         roundUnit(base),
			GroupDiscount:     groupDiscount,
			FrequencyDiscount: frequencyDiscount,
			Birthday:          birthday,
			SpecialDiscount:   special,
			AppliedDiscount:   applied,
			Subtotal:          roundUnit(price),
			Tax:               roundUnit(tax),
			Total:             roundUnit(total),
		}
		rows = append(rows, row)
		grandTotal += row.Total
	}

	return rows, grandTotal
}

func sameMonthDay(birth, date time.Time) bool {
	if birth.IsZero() {
		return false
	}
	return birth.Month() == date.Month() && birth.Day() == date.Day()
}

func roundUnit(v float64) int64 {
	return int64(math.Round(v))
}
