package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"kartrm/internal/pricing"
	reservationserrors "kartrm/internal/reservations/errors"
	"kartrm/internal/reservations/repository"
	"kartrm/internal/reservations/validator"
	"kartrm/pkg/config"
	apperrors "kartrm/pkg/errors"
	"kartrm/pkg/model"
	"kartrm/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// KartCapacity reports how many karts are fit to run right now.
type KartCapacity interface {
	CountAvailable(ctx context.Context) (int64, error)
}

// ParticipantDirectory resolves ruts to registered customers.
type ParticipantDirectory interface {
	FindByRuts(ctx context.Context, ruts []string) ([]*model.Customer, error)
}

// ReceiptRenderer turns a priced reservation into a deliverable artifact.
type ReceiptRenderer interface {
	Render(reservation *model.Reservation, rows []model.BreakdownRow) ([]byte, error)
}

// VoucherCourier hands the receipt to each recipient. A failed send aborts
// the remaining ones.
type VoucherCourier interface {
	Deliver(ctx context.Context, reservation *model.Reservation, recipients []string, receipt []byte) error
}

// CreateOptions carries the admin-only pricing overrides attached to a
// creation request.
type CreateOptions struct {
	Admin           bool
	CustomPrice     float64
	SpecialDiscount float64
}

type ReservationService interface {
	Create(ctx context.Context, reservation *model.Reservation, opts CreateOptions) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error)
	GetByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error)
	Update(ctx context.Context, id string, updates *model.ReservationUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByDate(ctx context.Context, date time.Time) (int64, error)
	Schedule(ctx context.Context) ([]model.ScheduleEntry, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	lockRepo  repository.ReservationLockRepository
	validator *validator.ReservationValidator
	karts     KartCapacity
	customers ParticipantDirectory
	receipts  ReceiptRenderer
	courier   VoucherCourier
	cfg       *config.Config
	now       func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	lockRepo repository.ReservationLockRepository,
	validator *validator.ReservationValidator,
	karts KartCapacity,
	customers ParticipantDirectory,
	receipts ReceiptRenderer,
	courier VoucherCourier,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		karts:     karts,
		customers: customers,
		receipts:  receipts,
		courier:   courier,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation, opts CreateOptions) error {
	s.sanitize(reservation)

	if err := s.validator.Validate(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed",
			"rut_user", reservation.RutUser,
			"error", err,
		)
		return apperrors.Validation("Reservation validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkOperatingHours(reservation); err != nil {
		return err
	}

	if err := s.checkKartCapacity(ctx, reservation); err != nil {
		return err
	}

	lockID, err := s.acquireDayLock(ctx, reservation.ReservationDate)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseDayLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	var (
		rows       []model.BreakdownRow
		resolved   []*model.Customer
		grandTotal int64
	)

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkOverlap(sessCtx, reservation, ""); err != nil {
			return err
		}

		var err error
		resolved, err = s.resolveParticipants(sessCtx, reservation)
		if err != nil {
			return err
		}

		rows, grandTotal, err = s.price(sessCtx, reservation, resolved, pricing.Options{
			Admin:           opts.Admin,
			CustomPrice:     opts.CustomPrice,
			SpecialDiscount: opts.SpecialDiscount,
		})
		if err != nil {
			return err
		}

		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"rut_user", reservation.RutUser,
			"reservation_date", reservation.ReservationDate,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"rut_user", reservation.RutUser,
		"reservation_date", reservation.ReservationDate,
		"number_people", reservation.NumberPeople,
		"total", grandTotal,
	)

	return s.deliverVoucher(ctx, reservation, resolved, rows)
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	return reservation, nil
}

func (s *reservationService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) GetByDate(ctx context.Context, date time.Time) ([]*model.Reservation, error) {
	reservations, err := s.repo.FindByExactDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to get reservations by date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) Update(ctx context.Context, id string, updates *model.ReservationUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid reservation ID format")
		}
		return apperrors.Internal("Failed to check reservation existence", err)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.merge(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Reservation validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkOperatingHours(merged); err != nil {
		return err
	}

	if err := s.checkKartCapacity(ctx, merged); err != nil {
		return err
	}

	lockID, err := s.acquireDayLock(ctx, merged.ReservationDate)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseDayLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release reservation lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.checkOverlap(sessCtx, merged, id); err != nil {
			return err
		}

		resolved, err := s.resolveParticipants(sessCtx, merged)
		if err != nil {
			return err
		}

		// Updates reprice on the standard path; creation-time admin
		// overrides are not carried forward.
		if _, _, err := s.price(sessCtx, merged, resolved, pricing.Options{}); err != nil {
			return err
		}

		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Reservation updated", "id", id)
	return nil
}

func (s *reservationService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid reservation ID format")
		}
		s.cfg.Log.Error("Failed to delete reservation", "id", id, "error", err)
		return apperrors.Internal("Failed to delete reservation", err)
	}

	s.cfg.Log.Info("Reservation deleted", "id", id)
	return nil
}

func (s *reservationService) DeleteByDate(ctx context.Context, date time.Time) (int64, error) {
	deleted, err := s.repo.DeleteByExactDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to delete reservations by date", "date", date, "error", err)
		return 0, apperrors.Internal("Failed to delete reservations", err)
	}

	s.cfg.Log.Info("Reservations deleted by date", "date", date, "count", deleted)
	return deleted, nil
}

// Schedule projects every reservation onto a calendar view. End times use
// the display fallback so sessions with retired codes still occupy a block.
func (s *reservationService) Schedule(ctx context.Context) ([]model.ScheduleEntry, error) {
	reservations, err := s.repo.FindAll(ctx, 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for schedule", "error", err)
		return nil, apperrors.Internal("Failed to build schedule", err)
	}

	names := map[string]string{}
	if len(reservations) > 0 {
		owners := make([]string, 0, len(reservations))
		seen := map[string]bool{}
		for _, r := range reservations {
			if !seen[r.RutUser] {
				seen[r.RutUser] = true
				owners = append(owners, r.RutUser)
			}
		}

		customers, err := s.customers.FindByRuts(ctx, owners)
		if err != nil {
			s.cfg.Log.Warn("Failed to resolve owner names for schedule", "error", err)
		} else {
			for _, c := range customers {
				names[c.Rut] = c.Name
			}
		}
	}

	entries := make([]model.ScheduleEntry, 0, len(reservations))
	for _, r := range reservations {
		title := names[r.RutUser]
		if title == "" {
			title = r.RutUser
		}
		entries = append(entries, model.ScheduleEntry{
			Start: r.ReservationDate,
			End:   r.ReservationDate.Add(pricing.DisplayDuration(r.LapsOrTime)),
			Title: title,
		})
	}

	return entries, nil
}

// --- Pipeline steps ---

func (s *reservationService) checkOperatingHours(reservation *model.Reservation) error {
	start := reservation.ReservationDate
	end := start.Add(pricing.SessionDuration(reservation.LapsOrTime))

	if !pricing.WithinOperatingHours(start, end) {
		opening := pricing.OpeningTime(start)
		closing := pricing.ClosingTime(start)
		return apperrors.BusinessRule(fmt.Sprintf(
			"Reservation is outside operating hours (%s - %s)",
			opening.Format("15:04"), closing.Format("15:04"),
		))
	}
	return nil
}

func (s *reservationService) checkKartCapacity(ctx context.Context, reservation *model.Reservation) error {
	available, err := s.karts.CountAvailable(ctx)
	if err != nil {
		return apperrors.Internal("Failed to check kart availability", err)
	}
	if int64(reservation.NumberPeople) > available {
		return apperrors.BusinessRule(fmt.Sprintf(
			"Not enough karts available: %d requested, %d available",
			reservation.NumberPeople, available,
		))
	}
	return nil
}

func (s *reservationService) checkOverlap(ctx context.Context, reservation *model.Reservation, excludeID string) error {
	start := reservation.ReservationDate
	end := start.Add(pricing.SessionDuration(reservation.LapsOrTime))

	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	sameDay, err := s.repo.FindBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return apperrors.Internal("Failed to check existing reservations", err)
	}

	for _, other := range sameDay {
		if excludeID != "" && other.ID == excludeID {
			continue
		}
		otherEnd := other.ReservationDate.Add(pricing.SessionDuration(other.LapsOrTime))
		if overlaps(other.ReservationDate, otherEnd, start, end) {
			return apperrors.Conflict(fmt.Sprintf(
				"Time slot already booked (%s - %s)",
				other.ReservationDate.Format(time.RFC3339),
				otherEnd.Format(time.RFC3339),
			))
		}
	}
	return nil
}

func overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// resolveParticipants maps the owner rut plus the delimited extras onto
// registered customers, preserving encounter order and duplicates. It also
// enforces that the declared party size matches the resolved count.
func (s *reservationService) resolveParticipants(ctx context.Context, reservation *model.Reservation) ([]*model.Customer, error) {
	requested := append([]string{reservation.RutUser}, sanitizer.SplitRutList(reservation.RutsUsers)...)

	distinct := make([]string, 0, len(requested))
	seen := map[string]bool{}
	for _, rut := range requested {
		if !seen[rut] {
			seen[rut] = true
			distinct = append(distinct, rut)
		}
	}

	customers, err := s.customers.FindByRuts(ctx, distinct)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve participants", err)
	}

	byRut := make(map[string]*model.Customer, len(customers))
	for _, c := range customers {
		byRut[c.Rut] = c
	}

	resolved := make([]*model.Customer, 0, len(requested))
	var missing []string
	for _, rut := range requested {
		c, ok := byRut[rut]
		if !ok {
			missing = append(missing, rut)
			continue
		}
		resolved = append(resolved, c)
	}

	if len(missing) > 0 {
		return nil, apperrors.BusinessRule(fmt.Sprintf(
			"One or more participants are not registered: %s",
			strings.Join(missing, ", "),
		))
	}

	if reservation.NumberPeople != len(resolved) {
		return nil, apperrors.BusinessRule(fmt.Sprintf(
			"Declared party size %d does not match participant count %d",
			reservation.NumberPeople, len(resolved),
		))
	}

	return resolved, nil
}

// price runs the discount chain for every resolved participant and stamps
// the serialized breakdown onto the reservation.
func (s *reservationService) price(ctx context.Context, reservation *model.Reservation, resolved []*model.Customer, opts pricing.Options) ([]model.BreakdownRow, int64, error) {
	visits, err := s.countMonthlyVisits(ctx, reservation, resolved)
	if err != nil {
		return nil, 0, err
	}

	participants := make([]pricing.Participant, 0, len(resolved))
	for _, c := range resolved {
		participants = append(participants, pricing.Participant{
			Name:          c.Name,
			Rut:           c.Rut,
			BirthDate:     c.BirthDate,
			MonthlyVisits: visits[c.Rut],
		})
	}

	rows, total := pricing.Quote(
		reservation.ReservationDate,
		reservation.LapsOrTime,
		reservation.NumberPeople,
		participants,
		opts,
	)

	detail, err := model.EncodeBreakdown(rows)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to encode price breakdown", err)
	}
	reservation.GroupDetail = detail

	return rows, total, nil
}

// countMonthlyVisits scans the bookings between the first day of the
// reservation's month and the reservation instant, counting appearances of
// each participant as owner or listed extra.
func (s *reservationService) countMonthlyVisits(ctx context.Context, reservation *model.Reservation, resolved []*model.Customer) (map[string]int, error) {
	start := reservation.ReservationDate
	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())

	// the window is inclusive of the reservation instant
	history, err := s.repo.FindBetween(ctx, monthStart, start.Add(time.Millisecond))
	if err != nil {
		return nil, apperrors.Internal("Failed to load visit history", err)
	}

	visits := make(map[string]int, len(resolved))
	for _, c := range resolved {
		visits[c.Rut] = 0
	}

	for _, past := range history {
		members := map[string]bool{past.RutUser: true}
		for _, rut := range sanitizer.SplitRutList(past.RutsUsers) {
			members[sanitizer.NormalizeRut(rut)] = true
		}
		for rut := range visits {
			if members[rut] {
				visits[rut]++
			}
		}
	}

	return visits, nil
}

func (s *reservationService) deliverVoucher(ctx context.Context, reservation *model.Reservation, resolved []*model.Customer, rows []model.BreakdownRow) error {
	receipt, err := s.receipts.Render(reservation, rows)
	if err != nil {
		s.cfg.Log.Error("Failed to render receipt", "id", reservation.ID, "error", err)
		return apperrors.Internal("Reservation created but receipt rendering failed", err)
	}

	var recipients []string
	for _, c := range resolved {
		if email := strings.TrimSpace(c.Email); email != "" {
			recipients = append(recipients, email)
		}
	}

	if err := s.courier.Deliver(ctx, reservation, recipients, receipt); err != nil {
		s.cfg.Log.Error("Failed to deliver voucher", "id", reservation.ID, "error", err)
		return apperrors.Internal("Reservation created but voucher delivery failed", err)
	}

	s.cfg.Log.Info("Voucher delivered", "id", reservation.ID, "recipients", len(recipients))
	return nil
}

// --- Helpers ---

func (s *reservationService) sanitize(reservation *model.Reservation) {
	reservation.RutUser = sanitizer.NormalizeRut(reservation.RutUser)

	ruts := sanitizer.SplitRutList(reservation.RutsUsers)
	for i, rut := range ruts {
		ruts[i] = sanitizer.NormalizeRut(rut)
	}
	reservation.RutsUsers = sanitizer.JoinRutList(ruts)
}

func (s *reservationService) merge(existing *model.Reservation, updates *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if updates.RutsUsers != nil {
		merged.RutsUsers = *updates.RutsUsers
	}
	if updates.ReservationDate != nil {
		merged.ReservationDate = *updates.ReservationDate
	}
	if updates.LapsOrTime != nil {
		merged.LapsOrTime = *updates.LapsOrTime
	}
	if updates.NumberPeople != nil {
		merged.NumberPeople = *updates.NumberPeople
	}

	return &merged
}

// acquireDayLock creates an advisory lock covering the reservation's
// calendar day. Returns conflict if another request holds it.
func (s *reservationService) acquireDayLock(ctx context.Context, start time.Time) (string, error) {
	lockID := fmt.Sprintf("reservation_lock_%s", start.Format("2006-01-02"))

	lock := &model.ReservationLock{
		ID:        lockID,
		ExpiresAt: s.now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This day is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire reservation lock", err)
	}

	return lockID, nil
}

func (s *reservationService) releaseDayLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
