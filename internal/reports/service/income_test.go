package service

import (
	"context"
	"testing"
	"time"

	"kartrm/pkg/config"
	mongotx "kartrm/pkg/db/mongo"
	"kartrm/pkg/logger"
	"kartrm/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockReservationRepository struct {
	reservations []*model.Reservation
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) FindBetween(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range m.reservations {
		if !r.ReservationDate.Before(start) && r.ReservationDate.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReservationRepository) FindByExactDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, r *model.Reservation) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockReservationRepository) DeleteByExactDate(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.TEXT,
			Service: "test",
		}),
		ReportLang: "es",
	}
}

func priced(date time.Time, code, people int, total int64) *model.Reservation {
	detail, _ := model.EncodeBreakdown([]model.BreakdownRow{
		{Name: "P", Subtotal: total, Total: total},
	})
	return &model.Reservation{
		ReservationDate: date,
		LapsOrTime:      code,
		NumberPeople:    people,
		GroupDetail:     detail,
	}
}

func TestIncomeByLapsOrTime(t *testing.T) {
	repo := &mockReservationRepository{
		reservations: []*model.Reservation{
			priced(time.Date(2026, time.January, 10, 15, 0, 0, 0, time.UTC), 10, 2, 17850),
			priced(time.Date(2026, time.January, 20, 15, 0, 0, 0, time.UTC), 10, 4, 30000),
			priced(time.Date(2026, time.February, 5, 15, 0, 0, 0, time.UTC), 20, 3, 50000),
		},
	}
	svc := NewIncomeService(repo, testConfig())

	table, err := svc.IncomeByLapsOrTime(context.Background(),
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"enero 2026", "febrero 2026", "marzo 2026", "Total"}, table.Columns)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, "10 vueltas o máx. 10 minutos", table.Rows[0].Category)
	assert.Equal(t, []int64{47850, 0, 0, 47850}, table.Rows[0].Values)
	assert.Equal(t, "15 vueltas o máx. 15 minutos", table.Rows[1].Category)
	assert.Equal(t, []int64{0, 0, 0, 0}, table.Rows[1].Values)
	assert.Equal(t, "20 vueltas o máx. 20 minutos", table.Rows[2].Category)
	assert.Equal(t, []int64{0, 50000, 0, 50000}, table.Rows[2].Values)

	assert.Equal(t, "TOTAL", table.Rows[3].Category)
	assert.Equal(t, []int64{47850, 50000, 0, 97850}, table.Rows[3].Values)
}

func TestIncomeByGroupSize(t *testing.T) {
	repo := &mockReservationRepository{
		reservations: []*model.Reservation{
			priced(time.Date(2026, time.May, 2, 15, 0, 0, 0, time.UTC), 10, 2, 10000),
			priced(time.Date(2026, time.May, 9, 15, 0, 0, 0, time.UTC), 10, 5, 40000),
			priced(time.Date(2026, time.May, 16, 15, 0, 0, 0, time.UTC), 15, 12, 90000),
		},
	}
	svc := NewIncomeService(repo, testConfig())

	table, err := svc.IncomeByGroupSize(context.Background(),
		time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"mayo 2026", "Total"}, table.Columns)

	require.Len(t, table.Rows, 5)
	assert.Equal(t, "1-2 personas", table.Rows[0].Category)
	assert.Equal(t, []int64{10000, 10000}, table.Rows[0].Values)
	assert.Equal(t, "3-5 personas", table.Rows[1].Category)
	assert.Equal(t, []int64{40000, 40000}, table.Rows[1].Values)
	assert.Equal(t, "6-10 personas", table.Rows[2].Category)
	assert.Equal(t, []int64{0, 0}, table.Rows[2].Values)
	assert.Equal(t, "11-15 personas", table.Rows[3].Category)
	assert.Equal(t, []int64{90000, 90000}, table.Rows[3].Values)
	assert.Equal(t, "TOTAL", table.Rows[4].Category)
	assert.Equal(t, []int64{140000, 140000}, table.Rows[4].Values)
}

func TestIncomeSkipsUnreadableBreakdowns(t *testing.T) {
	broken := &model.Reservation{
		ReservationDate: time.Date(2026, time.May, 3, 15, 0, 0, 0, time.UTC),
		LapsOrTime:      10,
		NumberPeople:    2,
		GroupDetail:     "{not json",
	}
	repo := &mockReservationRepository{
		reservations: []*model.Reservation{
			broken,
			priced(time.Date(2026, time.May, 4, 15, 0, 0, 0, time.UTC), 10, 2, 17850),
		},
	}
	svc := NewIncomeService(repo, testConfig())

	table, err := svc.IncomeByLapsOrTime(context.Background(),
		time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, []int64{17850, 17850}, table.Rows[0].Values)
}

func TestIncomeRejectsInvertedRange(t *testing.T) {
	svc := NewIncomeService(&mockReservationRepository{}, testConfig())

	_, err := svc.IncomeByLapsOrTime(context.Background(),
		time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.Error(t, err)
}
