package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var weekdayDate = time.Date(2026, time.March, 4, 16, 0, 0, 0, time.UTC)

func TestQuote_SingleParticipant(t *testing.T) {
	participants := []Participant{{Name: "Ana", Rut: "11111111-1"}}

	rows, total := Quote(weekdayDate, 10, 1, participants, Options{})

	require.Len(t, rows, 1)
	assert.Equal(t, int64(15000), rows[0].BasePrice)
	assert.Equal(t, 0, rows[0].AppliedDiscount)
	assert.Equal(t, int64(15000), rows[0].Subtotal)
	assert.Equal(t, int64(2850), rows[0].Tax)
	assert.Equal(t, int64(17850), rows[0].Total)
	assert.Equal(t, int64(17850), total)
}

func TestQuote_GroupDiscountApplied(t *testing.T) {
	participants := make([]Participant, 4)
	for i := range participants {
		participants[i] = Participant{Name: "P", Rut: "1-9"}
	}

	rows, _ := Quote(weekdayDate, 10, 4, participants, Options{})

	require.Len(t, rows, 4)
	for _, row := range rows {
		assert.Equal(t, 10, row.GroupDiscount)
		assert.Equal(t, 10, row.AppliedDiscount)
		assert.Equal(t, int64(13500), row.Subtotal)
	}
}

func TestQuote_FrequencyBeatsGroup(t *testing.T) {
	participants := []Participant{
		{Name: "Frequent", Rut: "1-9", MonthlyVisits: 6},
		{Name: "Casual", Rut: "2-7", MonthlyVisits: 0},
	}

	rows, _ := Quote(weekdayDate, 10, 4, participants, Options{})

	require.Len(t, rows, 2)
	assert.Equal(t, 20, rows[0].FrequencyDiscount)
	assert.Equal(t, 20, rows[0].AppliedDiscount)
	assert.Equal(t, 10, rows[1].AppliedDiscount)
}

func TestQuote_BirthdayAllowance(t *testing.T) {
	birthday := time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC)

	t.Run("party of four grants one", func(t *testing.T) {
		participants := []Participant{
			{Name: "First", Rut: "1-9", BirthDate: birthday},
			{Name: "Second", Rut: "2-7", BirthDate: birthday},
			{Name: "Third", Rut: "3-5"},
			{Name: "Fourth", Rut: "4-3"},
		}

		rows, _ := Quote(weekdayDate, 10, 4, participants, Options{})

		require.Len(t, rows, 4)
		assert.True(t, rows[0].Birthday)
		assert.Equal(t, 50, rows[0].AppliedDiscount)
		assert.False(t, rows[1].Birthday)
		assert.Equal(t, 10, rows[1].AppliedDiscount)
	})

	t.Run("party of eight grants two", func(t *testing.T) {
		participants := make([]Participant, 8)
		for i := range participants {
			participants[i] = Participant{Name: "P", Rut: "1-9"}
		}
		participants[0].BirthDate = birthday
		participants[3].BirthDate = birthday
		participants[5].BirthDate = birthday

		rows, _ := Quote(weekdayDate, 10, 8, participants, Options{})

		assert.True(t, rows[0].Birthday)
		assert.True(t, rows[3].Birthday)
		assert.False(t, rows[5].Birthday)
		assert.Equal(t, 20, rows[5].AppliedDiscount)
	})

	t.Run("pair grants none", func(t *testing.T) {
		participants := []Participant{
			{Name: "First", Rut: "1-9", BirthDate: birthday},
			{Name: "Second", Rut: "2-7"},
		}

		rows, _ := Quote(weekdayDate, 10, 2, participants, Options{})

		assert.False(t, rows[0].Birthday)
		assert.Equal(t, 0, rows[0].AppliedDiscount)
	})
}

func TestQuote_HolidaySurcharge(t *testing.T) {
	saturday := time.Date(2026, time.March, 7, 11, 0, 0, 0, time.UTC)
	participants := []Participant{{Name: "Ana", Rut: "1-9"}}

	rows, _ := Quote(saturday, 10, 1, participants, Options{})

	require.Len(t, rows, 1)
	assert.Equal(t, int64(17250), rows[0].BasePrice) // 15000 * 1.15
	assert.Equal(t, int64(20528), rows[0].Total)     // round(17250 * 1.19)
}

func TestQuote_AdminOverrides(t *testing.T) {
	participants := []Participant{{Name: "Ana", Rut: "1-9"}}

	t.Run("custom price replaces tariff without surcharge", func(t *testing.T) {
		saturday := time.Date(2026, time.March, 7, 11, 0, 0, 0, time.UTC)

		rows, _ := Quote(saturday, 10, 1, participants, Options{Admin: true, CustomPrice: 12000})

		assert.Equal(t, int64(12000), rows[0].BasePrice)
	})

	t.Run("custom price ignored for non-admin", func(t *testing.T) {
		rows, _ := Quote(weekdayDate, 10, 1, participants, Options{CustomPrice: 12000})

		assert.Equal(t, int64(15000), rows[0].BasePrice)
	})

	t.Run("special discount wins when strictly greater", func(t *testing.T) {
		rows, _ := Quote(weekdayDate, 10, 1, participants, Options{Admin: true, SpecialDiscount: 25})

		assert.Equal(t, 25, rows[0].AppliedDiscount)
	})

	t.Run("special discount loses a tie", func(t *testing.T) {
		group := make([]Participant, 4)
		for i := range group {
			group[i] = Participant{Name: "P", Rut: "1-9"}
		}

		rows, _ := Quote(weekdayDate, 10, 4, group, Options{Admin: true, SpecialDiscount: 10})

		assert.Equal(t, 10, rows[0].AppliedDiscount)
		assert.Equal(t, int64(13500), rows[0].Subtotal)
	})

	t.Run("zero special discount is not applied", func(t *testing.T) {
		rows, _ := Quote(weekdayDate, 10, 1, participants, Options{Admin: true, SpecialDiscount: 0})

		assert.Equal(t, 0, rows[0].AppliedDiscount)
	})
}

func TestQuote_GrandTotalSumsRoundedRows(t *testing.T) {
	participants := []Participant{
		{Name: "Ana", Rut: "1-9"},
		{Name: "Beto", Rut: "2-7"},
		{Name: "Cata", Rut: "3-5"},
	}

	rows, total := Quote(weekdayDate, 15, 3, participants, Options{})

	var sum int64
	for _, row := range rows {
		sum += row.Total
	}
	assert.Equal(t, sum, total)
}
