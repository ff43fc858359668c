package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	customerserrors "kartrm/internal/customers/errors"
	"kartrm/internal/customers/repository"
	"kartrm/internal/customers/validator"
	"kartrm/pkg/config"
	apperrors "kartrm/pkg/errors"
	"kartrm/pkg/model"
	"kartrm/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

type CustomerService interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id string) (*model.Customer, error)
	GetByRut(ctx context.Context, rut string) (*model.Customer, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Customer, int64, error)
	Update(ctx context.Context, id string, updates *model.CustomerUpdate) error
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	repo      repository.CustomerRepository
	validator *validator.CustomerValidator
	cfg       *config.Config
}

func NewCustomerService(
	repo repository.CustomerRepository,
	validator *validator.CustomerValidator,
	cfg *config.Config,
) CustomerService {
	return &customerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *customerService) Create(ctx context.Context, customer *model.Customer) error {
	s.sanitize(customer)

	if err := s.validator.Validate(customer); err != nil {
		s.cfg.Log.Warn("Customer validation failed",
			"rut", customer.Rut,
			"error", err,
		)
		return apperrors.Validation("Customer validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByRut(sessCtx, customer.Rut)
		if err != nil && !errors.Is(err, customerserrors.ErrNotFound) {
			return fmt.Errorf("failed to check for duplicate rut: %w", err)
		}
		if existing != nil {
			return apperrors.Conflict(fmt.Sprintf(
				"Customer with rut %s already exists (id: %s)",
				customer.Rut, existing.ID,
			))
		}

		if err := s.repo.Create(sessCtx, customer); err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}

		return nil
	})

	if err != nil {
		s.cfg.Log.Error("Failed to create customer",
			"rut", customer.Rut,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Customer created",
		"id", customer.ID,
		"rut", customer.Rut,
	)

	return nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Customer", id)
		}
		if errors.Is(err, customerserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid customer ID format")
		}
		s.cfg.Log.Error("Failed to get customer by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve customer", err)
	}

	return customer, nil
}

func (s *customerService) GetByRut(ctx context.Context, rut string) (*model.Customer, error) {
	rut = sanitizer.NormalizeRut(rut)
	if rut == "" {
		return nil, apperrors.InvalidInput("Customer rut cannot be empty")
	}

	customer, err := s.repo.FindByRut(ctx, rut)
	if err != nil {
		if errors.Is(err, customerserrors.ErrNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("Customer with rut %s not found", rut))
		}
		s.cfg.Log.Error("Failed to get customer by rut", "rut", rut, "error", err)
		return nil, apperrors.Internal("Failed to retrieve customer", err)
	}

	return customer, nil
}

func (s *customerService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Customer, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var customers []*model.Customer
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count customers", "error", err)
			errCount = apperrors.Internal("Failed to count customers", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
		defer cancel()
		customers, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all customers",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve customers", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return customers, count, nil
}

func (s *customerService) Update(ctx context.Context, id string, updates *model.CustomerUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Customer ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, customerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Customer", id)
		}
		if errors.Is(err, customerserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid customer ID format")
		}
		return apperrors.Internal("Failed to check customer existence", err)
	}

	merged := s.merge(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Customer validation failed",
			"id", id,
			"rut", merged.Rut,
			"error", err,
		)
		return apperrors.Validation("Customer validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, customerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Customer", id)
		}
		s.cfg.Log.Error("Failed to update customer", "id", id, "error", err)
		return apperrors.Internal("Failed to update customer", err)
	}

	s.cfg.Log.Info("Customer updated", "id", id, "rut", merged.Rut)
	return nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Customer ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, customerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Customer", id)
		}
		if errors.Is(err, customerserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid customer ID format")
		}
		s.cfg.Log.Error("Failed to delete customer", "id", id, "error", err)
		return apperrors.Internal("Failed to delete customer", err)
	}

	s.cfg.Log.Info("Customer deleted", "id", id)
	return nil
}

func (s *customerService) sanitize(customer *model.Customer) {
	customer.Name = sanitizer.NormalizeName(customer.Name)
	customer.Email = sanitizer.NormalizeEmail(customer.Email)
	customer.Rut = sanitizer.NormalizeRut(customer.Rut)
	customer.Phone = sanitizer.TrimAndNormalize(customer.Phone)
}

func (s *customerService) merge(existing *model.Customer, updates *model.CustomerUpdate) *model.Customer {
	merged := *existing

	if updates.Name != "" {
		merged.Name = sanitizer.NormalizeName(updates.Name)
	}
	if updates.Email != "" {
		merged.Email = sanitizer.NormalizeEmail(updates.Email)
	}
	if updates.Phone != "" {
		merged.Phone = sanitizer.TrimAndNormalize(updates.Phone)
	}
	if updates.BirthDate != nil {
		merged.BirthDate = *updates.BirthDate
	}
	if updates.Admin != nil {
		merged.Admin = *updates.Admin
	}

	return &merged
}
