package pricing

// GroupDiscount returns the percentage discount earned by the party size.
func GroupDiscount(partySize int) int {
	switch {
	case partySize < 3:
		return 0
	case partySize <= 5:
		return 10
	case partySize <= 10:
		return 20
	case partySize <= 15:
		return 30
	}
	return 30
}

// FrequencyDiscount returns the percentage discount earned by a
// participant's visit count within the current month.
func FrequencyDiscount(visits int) int {
	switch {
	case visits >= 7:
		return 30
	case visits >= 5:
		return 20
	case visits >= 2:
		return 10
	}
	return 0
}

// BirthdayAllowance returns how many birthday discounts one reservation may
// grant, scaled by party size.
func BirthdayAllowance(partySize int) int {
	switch {
	case partySize >= 3 && partySize <= 5:
		return 1
	case partySize >= 6 && partySize <= 15:
		return 2
	}
	return 0
}

const birthdayDiscount = 50
