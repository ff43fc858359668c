package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"kartrm/internal/reservations/validator"
	"kartrm/pkg/config"
	mongotx "kartrm/pkg/db/mongo"
	apperrors "kartrm/pkg/errors"
	"kartrm/pkg/logger"
	"kartrm/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockReservationRepository struct {
	createFunc      func(ctx context.Context, r *model.Reservation) error
	findBetweenFunc func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error)
	findAllFunc     func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error)
	countFunc       func(ctx context.Context) (int64, error)

	created []*model.Reservation
}

func (m *mockReservationRepository) Create(ctx context.Context, r *model.Reservation) error {
	m.created = append(m.created, r)
	if m.createFunc != nil {
		return m.createFunc(ctx, r)
	}
	r.ID = "65f000000000000000000001"
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) FindBetween(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
	if m.findBetweenFunc != nil {
		return m.findBetweenFunc(ctx, start, end)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) FindByExactDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepository) Update(ctx context.Context, id string, r *model.Reservation) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockReservationRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockReservationRepository) DeleteByExactDate(ctx context.Context, date time.Time) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error)
	deleted    []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockKarts struct {
	available int64
	err       error
}

func (m *mockKarts) CountAvailable(ctx context.Context) (int64, error) {
	return m.available, m.err
}

type mockDirectory struct {
	customers []*model.Customer
	err       error
}

func (m *mockDirectory) FindByRuts(ctx context.Context, ruts []string) ([]*model.Customer, error) {
	return m.customers, m.err
}

type mockRenderer struct {
	calls int
	err   error
}

func (m *mockRenderer) Render(reservation *model.Reservation, rows []model.BreakdownRow) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []byte("receipt"), nil
}

type mockCourier struct {
	recipients []string
	err        error
}

func (m *mockCourier) Deliver(ctx context.Context, reservation *model.Reservation, recipients []string, receipt []byte) error {
	m.recipients = recipients
	return m.err
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.TEXT,
			Service: "test",
		}),
		ReadTimeout: 5 * time.Second,
		SlotLockTTL: 10 * time.Second,
	}
}

func testCustomers() []*model.Customer {
	return []*model.Customer{
		{ID: "65f000000000000000000010", Name: "Ana Soto", Rut: "11111111-1", Email: "ana@example.com", BirthDate: time.Date(1990, time.July, 12, 0, 0, 0, 0, time.UTC)},
		{ID: "65f000000000000000000011", Name: "Beto Rojas", Rut: "12345678-5", Email: "beto@example.com", BirthDate: time.Date(1992, time.April, 3, 0, 0, 0, 0, time.UTC)},
	}
}

// weekday afternoon slot, inside operating hours
var testStart = time.Date(2026, time.March, 4, 16, 0, 0, 0, time.UTC)

func testReservation() *model.Reservation {
	return &model.Reservation{
		RutUser:         "11111111-1",
		RutsUsers:       "12345678-5",
		ReservationDate: testStart,
		LapsOrTime:      10,
		NumberPeople:    2,
	}
}

type serviceFixture struct {
	repo     *mockReservationRepository
	locks    *mockLockRepository
	karts    *mockKarts
	dir      *mockDirectory
	renderer *mockRenderer
	courier  *mockCourier
	svc      *reservationService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		repo:     &mockReservationRepository{},
		locks:    &mockLockRepository{},
		karts:    &mockKarts{available: 15},
		dir:      &mockDirectory{customers: testCustomers()},
		renderer: &mockRenderer{},
		courier:  &mockCourier{},
	}
	svc := NewReservationService(
		f.repo, f.locks, validator.NewReservationValidator(),
		f.karts, f.dir, f.renderer, f.courier, testConfig(),
	)
	f.svc = svc.(*reservationService)
	f.svc.now = func() time.Time { return testStart.Add(-time.Hour) }
	return f
}

func appErrorCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	return appErr.Code
}

// ────────────────────────────────────────────────
// Create
// ────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	reservation := testReservation()

	if err := f.svc.Create(context.Background(), reservation, CreateOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.repo.created) != 1 {
		t.Fatalf("expected 1 persisted reservation, got %d", len(f.repo.created))
	}

	rows, err := model.DecodeBreakdown(reservation.GroupDetail)
	if err != nil {
		t.Fatalf("stored breakdown does not decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 breakdown rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Total != 17850 {
			t.Errorf("expected row total 17850, got %d for %s", row.Total, row.Name)
		}
	}

	if f.renderer.calls != 1 {
		t.Errorf("expected 1 render call, got %d", f.renderer.calls)
	}
	if len(f.courier.recipients) != 2 {
		t.Errorf("expected 2 voucher recipients, got %v", f.courier.recipients)
	}
	if len(f.locks.deleted) != 1 {
		t.Errorf("expected day lock to be released, got %v", f.locks.deleted)
	}
}

func TestCreate_OutsideOperatingHours(t *testing.T) {
	f := newFixture()
	reservation := testReservation()
	// weekday track opens at 14:00
	reservation.ReservationDate = time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)

	err := f.svc.Create(context.Background(), reservation, CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeBusinessRule {
		t.Errorf("expected business rule error, got %s", code)
	}
	if len(f.repo.created) != 0 {
		t.Error("reservation must not be persisted")
	}
}

func TestCreate_InsufficientKarts(t *testing.T) {
	f := newFixture()
	f.karts.available = 1

	err := f.svc.Create(context.Background(), testReservation(), CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeBusinessRule {
		t.Errorf("expected business rule error, got %s", code)
	}
	if len(f.repo.created) != 0 {
		t.Error("reservation must not be persisted")
	}
}

func TestCreate_SlotOverlap(t *testing.T) {
	f := newFixture()
	f.repo.findBetweenFunc = func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
		return []*model.Reservation{{
			ID:              "65f000000000000000000099",
			RutUser:         "7317855-K",
			ReservationDate: testStart.Add(15 * time.Minute),
			LapsOrTime:      10,
			NumberPeople:    1,
		}}, nil
	}

	err := f.svc.Create(context.Background(), testReservation(), CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %s", code)
	}
	if len(f.repo.created) != 0 {
		t.Error("reservation must not be persisted")
	}
}

func TestCreate_LockContention(t *testing.T) {
	f := newFixture()
	f.locks.createFunc = func(ctx context.Context, lock *model.ReservationLock) (*model.ReservationLock, error) {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}

	err := f.svc.Create(context.Background(), testReservation(), CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeConflict {
		t.Errorf("expected conflict error, got %s", code)
	}
}

func TestCreate_UnregisteredParticipant(t *testing.T) {
	f := newFixture()
	f.dir.customers = testCustomers()[:1]

	err := f.svc.Create(context.Background(), testReservation(), CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeBusinessRule {
		t.Errorf("expected business rule error, got %s", code)
	}
	if !strings.Contains(err.Error(), "12345678-5") {
		t.Errorf("error should name the missing rut, got: %v", err)
	}
}

func TestCreate_PartySizeMismatch(t *testing.T) {
	f := newFixture()
	reservation := testReservation()
	reservation.NumberPeople = 3

	err := f.svc.Create(context.Background(), reservation, CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeBusinessRule {
		t.Errorf("expected business rule error, got %s", code)
	}
}

func TestCreate_FrequencyDiscountFromHistory(t *testing.T) {
	f := newFixture()
	// owner already visited twice this month, once as owner and once as an
	// extra on someone else's booking
	f.repo.findBetweenFunc = func(ctx context.Context, start, end time.Time) ([]*model.Reservation, error) {
		if start.Day() == 1 {
			return []*model.Reservation{
				{RutUser: "11111111-1", ReservationDate: testStart.AddDate(0, 0, -3), LapsOrTime: 10},
				{RutUser: "7317855-K", RutsUsers: "11111111-1", ReservationDate: testStart.AddDate(0, 0, -1), LapsOrTime: 10},
			}, nil
		}
		return []*model.Reservation{}, nil
	}

	reservation := testReservation()
	if err := f.svc.Create(context.Background(), reservation, CreateOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := model.DecodeBreakdown(reservation.GroupDetail)
	if err != nil {
		t.Fatalf("stored breakdown does not decode: %v", err)
	}
	if rows[0].FrequencyDiscount != 10 {
		t.Errorf("expected frequency discount 10 for owner, got %d", rows[0].FrequencyDiscount)
	}
	if rows[0].AppliedDiscount != 10 {
		t.Errorf("expected applied discount 10 for owner, got %d", rows[0].AppliedDiscount)
	}
	if rows[1].FrequencyDiscount != 0 {
		t.Errorf("expected frequency discount 0 for extra, got %d", rows[1].FrequencyDiscount)
	}
}

func TestCreate_VoucherFailureKeepsReservation(t *testing.T) {
	f := newFixture()
	f.courier.err = errors.New("broker unreachable")

	err := f.svc.Create(context.Background(), testReservation(), CreateOptions{})
	if code := appErrorCode(t, err); code != apperrors.CodeInternal {
		t.Errorf("expected internal error, got %s", code)
	}
	if len(f.repo.created) != 1 {
		t.Error("reservation must stay persisted when delivery fails")
	}
}

func TestCreate_AdminCustomPrice(t *testing.T) {
	f := newFixture()
	reservation := testReservation()

	opts := CreateOptions{Admin: true, CustomPrice: 12000}
	if err := f.svc.Create(context.Background(), reservation, opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := model.DecodeBreakdown(reservation.GroupDetail)
	if err != nil {
		t.Fatalf("stored breakdown does not decode: %v", err)
	}
	if rows[0].BasePrice != 12000 {
		t.Errorf("expected custom base price 12000, got %d", rows[0].BasePrice)
	}
}

// ────────────────────────────────────────────────
// Schedule
// ────────────────────────────────────────────────

func TestSchedule_TitlesAndDurations(t *testing.T) {
	f := newFixture()
	f.repo.findAllFunc = func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
		return []*model.Reservation{
			{RutUser: "11111111-1", ReservationDate: testStart, LapsOrTime: 10},
			{RutUser: "99999999-9", ReservationDate: testStart.Add(time.Hour), LapsOrTime: 12},
		}, nil
	}

	entries, err := f.svc.Schedule(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].Title != "Ana Soto" {
		t.Errorf("expected resolved owner name, got %q", entries[0].Title)
	}
	if got := entries[0].End.Sub(entries[0].Start); got != 30*time.Minute {
		t.Errorf("expected 30m span for code 10, got %s", got)
	}

	// unresolved owner falls back to the rut; unknown code to code+20 minutes
	if entries[1].Title != "99999999-9" {
		t.Errorf("expected rut fallback title, got %q", entries[1].Title)
	}
	if got := entries[1].End.Sub(entries[1].Start); got != 32*time.Minute {
		t.Errorf("expected 32m span for code 12, got %s", got)
	}
}
