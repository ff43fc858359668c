package service

import (
	"context"
	"fmt"
	"time"

	"kartrm/internal/pricing"
	"kartrm/internal/reservations/repository"
	"kartrm/pkg/config"
	apperrors "kartrm/pkg/errors"
	"kartrm/pkg/locale"
	"kartrm/pkg/model"
)

// groupSizeCategories are the fixed party-size buckets the back office
// reports on, in display order.
var groupSizeCategories = []struct {
	label    string
	min, max int
}{
	{"1-2 personas", 1, 2},
	{"3-5 personas", 3, 5},
	{"6-10 personas", 6, 10},
	{"11-15 personas", 11, 15},
}

type IncomeService interface {
	IncomeByLapsOrTime(ctx context.Context, start, end time.Time) (*model.IncomeTable, error)
	IncomeByGroupSize(ctx context.Context, start, end time.Time) (*model.IncomeTable, error)
}

type incomeService struct {
	reservations repository.ReservationRepository
	cfg          *config.Config
}

func NewIncomeService(reservations repository.ReservationRepository, cfg *config.Config) IncomeService {
	return &incomeService{
		reservations: reservations,
		cfg:          cfg,
	}
}

func (s *incomeService) IncomeByLapsOrTime(ctx context.Context, start, end time.Time) (*model.IncomeTable, error) {
	categories := make([]string, 0, len(pricing.SessionCodes))
	byCode := map[int]int{}
	for i, code := range pricing.SessionCodes {
		categories = append(categories, pricing.SessionLabel(code))
		byCode[code] = i
	}

	return s.buildTable(ctx, start, end, categories, func(r *model.Reservation) (int, bool) {
		idx, ok := byCode[r.LapsOrTime]
		return idx, ok
	})
}

func (s *incomeService) IncomeByGroupSize(ctx context.Context, start, end time.Time) (*model.IncomeTable, error) {
	categories := make([]string, 0, len(groupSizeCategories))
	for _, c := range groupSizeCategories {
		categories = append(categories, c.label)
	}

	return s.buildTable(ctx, start, end, categories, func(r *model.Reservation) (int, bool) {
		for i, c := range groupSizeCategories {
			if r.NumberPeople >= c.min && r.NumberPeople <= c.max {
				return i, true
			}
		}
		return 0, false
	})
}

// buildTable replays the stored breakdown rows of every reservation in
// [start, end], bucketing totals by calendar month and category. Rows whose
// stored breakdown fails to decode are skipped.
func (s *incomeService) buildTable(ctx context.Context, start, end time.Time, categories []string, categorize func(*model.Reservation) (int, bool)) (*model.IncomeTable, error) {
	if end.Before(start) {
		return nil, apperrors.InvalidInput("end date must not precede start date")
	}

	months := monthsBetween(start, end)
	monthIndex := make(map[string]int, len(months))
	for i, m := range months {
		monthIndex[m.Format("2006-01")] = i
	}

	reservations, err := s.reservations.FindBetween(ctx, start, end.Add(24*time.Hour))
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for income report",
			"start", start,
			"end", end,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to build income report", err)
	}

	// cells[category][month]
	cells := make([][]int64, len(categories))
	for i := range cells {
		cells[i] = make([]int64, len(months))
	}

	skipped := 0
	for _, r := range reservations {
		catIdx, ok := categorize(r)
		if !ok {
			continue
		}
		monIdx, ok := monthIndex[r.ReservationDate.Format("2006-01")]
		if !ok {
			continue
		}

		rows, err := model.DecodeBreakdown(r.GroupDetail)
		if err != nil {
			skipped++
			continue
		}

		var total int64
		for _, row := range rows {
			total += row.Total
		}
		cells[catIdx][monIdx] += total
	}

	if skipped > 0 {
		s.cfg.Log.Warn("Skipped reservations with unreadable breakdowns",
			"count", skipped,
			"start", start,
			"end", end,
		)
	}

	columns := make([]string, 0, len(months)+1)
	for _, m := range months {
		columns = append(columns, fmt.Sprintf("%s %d", locale.MonthName(s.cfg.ReportLang, m.Month()), m.Year()))
	}
	columns = append(columns, "Total")

	table := &model.IncomeTable{Columns: columns}
	grand := make([]int64, len(months)+1)
	for i, category := range categories {
		values := make([]int64, 0, len(months)+1)
		var rowTotal int64
		for j := range months {
			values = append(values, cells[i][j])
			rowTotal += cells[i][j]
			grand[j] += cells[i][j]
		}
		values = append(values, rowTotal)
		grand[len(months)] += rowTotal
		table.Rows = append(table.Rows, model.IncomeRow{Category: category, Values: values})
	}
	table.Rows = append(table.Rows, model.IncomeRow{Category: "TOTAL", Values: grand})

	return table, nil
}

// monthsBetween lists the first day of every calendar month touched by the
// range, inclusive on both ends.
func monthsBetween(start, end time.Time) []time.Time {
	var months []time.Time
	m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !m.After(last) {
		months = append(months, m)
		m = m.AddDate(0, 1, 0)
	}
	return months
}
