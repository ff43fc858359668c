package service

import (
	"context"
	"errors"
	"fmt"

	kartserrors "kartrm/internal/karts/errors"
	"kartrm/internal/karts/repository"
	"kartrm/internal/karts/validator"
	"kartrm/pkg/config"
	apperrors "kartrm/pkg/errors"
	"kartrm/pkg/model"
	"kartrm/pkg/sanitizer"
)

type KartService interface {
	Create(ctx context.Context, kart *model.Kart) error
	GetByID(ctx context.Context, id string) (*model.Kart, error)
	GetAll(ctx context.Context) ([]*model.Kart, error)
	GetAvailable(ctx context.Context) ([]*model.Kart, error)
	Update(ctx context.Context, id string, updates *model.KartUpdate) error
	Delete(ctx context.Context, id string) error
	CountAvailable(ctx context.Context) (int64, error)
}

type kartService struct {
	repo      repository.KartRepository
	validator *validator.KartValidator
	cfg       *config.Config
}

func NewKartService(
	repo repository.KartRepository,
	validator *validator.KartValidator,
	cfg *config.Config,
) KartService {
	return &kartService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *kartService) Create(ctx context.Context, kart *model.Kart) error {
	kart.Code = sanitizer.TrimAndNormalize(kart.Code)
	kart.Model = sanitizer.TrimAndNormalize(kart.Model)

	if err := s.validator.Validate(kart); err != nil {
		s.cfg.Log.Warn("Kart validation failed", "code", kart.Code, "error", err)
		return apperrors.Validation("Kart validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	existing, err := s.repo.FindByCode(ctx, kart.Code)
	if err != nil && !errors.Is(err, kartserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check kart code", "code", kart.Code, "error", err)
		return apperrors.Internal("Failed to check kart code", err)
	}
	if existing != nil {
		return apperrors.Conflict(fmt.Sprintf("Kart with code %s already exists", kart.Code))
	}

	if err := s.repo.Create(ctx, kart); err != nil {
		s.cfg.Log.Error("Failed to create kart", "code", kart.Code, "error", err)
		return apperrors.Internal("Failed to create kart", err)
	}

	s.cfg.Log.Info("Kart created", "id", kart.ID, "code", kart.Code)
	return nil
}

func (s *kartService) GetByID(ctx context.Context, id string) (*model.Kart, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Kart ID cannot be empty")
	}

	kart, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, kartserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Kart", id)
		}
		if errors.Is(err, kartserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid kart ID format")
		}
		s.cfg.Log.Error("Failed to get kart by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve kart", err)
	}

	return kart, nil
}

func (s *kartService) GetAll(ctx context.Context) ([]*model.Kart, error) {
	karts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to get all karts", "error", err)
		return nil, apperrors.Internal("Failed to retrieve karts", err)
	}
	return karts, nil
}

func (s *kartService) GetAvailable(ctx context.Context) ([]*model.Kart, error) {
	karts, err := s.repo.FindAvailable(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to get available karts", "error", err)
		return nil, apperrors.Internal("Failed to retrieve karts", err)
	}
	return karts, nil
}

func (s *kartService) Update(ctx context.Context, id string, updates *model.KartUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Kart ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, kartserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Kart", id)
		}
		if errors.Is(err, kartserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid kart ID format")
		}
		return apperrors.Internal("Failed to check kart existence", err)
	}

	merged := *existing
	if updates.Code != "" {
		merged.Code = sanitizer.TrimAndNormalize(updates.Code)
	}
	if updates.Model != "" {
		merged.Model = sanitizer.TrimAndNormalize(updates.Model)
	}
	if updates.Available != nil {
		merged.Available = *updates.Available
	}

	if err := s.validator.Validate(&merged); err != nil {
		s.cfg.Log.Warn("Kart validation failed", "id", id, "error", err)
		return apperrors.Validation("Kart validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, &merged); err != nil {
		if errors.Is(err, kartserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Kart", id)
		}
		s.cfg.Log.Error("Failed to update kart", "id", id, "error", err)
		return apperrors.Internal("Failed to update kart", err)
	}

	s.cfg.Log.Info("Kart updated", "id", id, "code", merged.Code)
	return nil
}

func (s *kartService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Kart ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, kartserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Kart", id)
		}
		if errors.Is(err, kartserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid kart ID format")
		}
		s.cfg.Log.Error("Failed to delete kart", "id", id, "error", err)
		return apperrors.Internal("Failed to delete kart", err)
	}

	s.cfg.Log.Info("Kart deleted", "id", id)
	return nil
}

func (s *kartService) CountAvailable(ctx context.Context) (int64, error) {
	count, err := s.repo.CountAvailable(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count available karts", "error", err)
		return 0, apperrors.Internal("Failed to count available karts", err)
	}
	return count, nil
}
