package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainerdesk/internal/caching"
	"trainerdesk/internal/common"
	"trainerdesk/internal/models"
	"trainerdesk/internal/repositories"
	"trainerdesk/internal/subdomain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBioLength = 500

type TrainerService interface {
	GetProfile(ctx context.Context, trainerID uuid.UUID) (*models.Trainer, error)
	UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.Trainer, error)
	GetPublicPage(ctx context.Context, label string) (*models.PublicPage, error)
}

type trainerService struct {
	trainerRepo repositories.TrainerRepository
	userRepo    repositories.UserRepository
	cacheSvc    caching.CacheService
	storage     StorageService
	pageTTL     time.Duration
	logger      *zap.Logger
}

func NewTrainerService(trainerRepo repositories.TrainerRepository, userRepo repositories.UserRepository, cacheSvc caching.CacheService, storage StorageService, pageTTL time.Duration, logger *zap.Logger) TrainerService {
	return &trainerService{
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		cacheSvc:    cacheSvc,
		storage:     storage,
		pageTTL:     pageTTL,
		logger:      logger,
	}
}

// UpdateProfileRequest carries the editable profile settings. The subdomain is
// not part of it.
type UpdateProfileRequest struct {
	TrainerID    uuid.UUID `json:"-"`
	UserID       uuid.UUID `json:"-"`
	Name         string    `json:"name"`
	BusinessName string    `json:"businessName"`
	Bio          string    `json:"bio"`
	Phone        string    `json:"phone"`
	Timezone     string    `json:"timezone"`
	ProfilePhoto string    `json:"profilePhoto"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs common.ValidationErrors
	errs.Check(common.MinLength(r.Name, 2), "name", "Name must be at least 2 characters")
	errs.Check(common.MinLength(r.BusinessName, 2), "businessName", "Business name must be at least 2 characters")
	errs.Check(common.MaxLength(r.Bio, maxBioLength), "bio", "Bio must be less than 500 characters")
	errs.Check(common.ValidPhone(strings.TrimSpace(r.Phone)), "phone", "Invalid phone number format")
	errs.Check(common.ValidTimezone(r.Timezone), "timezone", "Timezone is required")
	errs.Check(common.ValidURL(strings.TrimSpace(r.ProfilePhoto)), "profilePhoto", "Invalid url")
	return errs.Err()
}

// GetProfile returns the trainer with its owner's name and email.
func (s *trainerService) GetProfile(ctx context.Context, trainerID uuid.UUID) (*models.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetPrimaryByTrainerID(ctx, trainerID)
	switch {
	case err == nil:
		trainer.User = &models.UserSummary{Name: owner.Name, Email: owner.Email}
	case errors.Is(err, models.ErrNotFound):
	default:
		return nil, fmt.Errorf("load trainer owner: %w", err)
	}
	return trainer, nil
}

// UpdateProfile saves the settings, renames the acting user when the name
// changed, removes a replaced uploaded photo and drops the cached public page
// and dashboard stats. Stats depend on the timezone.
func (s *trainerService) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*models.Trainer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	previous, err := s.trainerRepo.GetByID(ctx, req.TrainerID)
	if err != nil {
		return nil, err
	}

	trainer, err := s.trainerRepo.UpdateProfile(ctx, &models.ProfileUpdate{
		TrainerID:    req.TrainerID,
		BusinessName: strings.TrimSpace(req.BusinessName),
		Bio:          common.NullableString(req.Bio),
		Phone:        common.NullableString(req.Phone),
		Timezone:     req.Timezone,
		ProfilePhoto: common.NullableString(req.ProfilePhoto),
	})
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Name != name {
		if err := s.userRepo.UpdateName(ctx, user.ID, name); err != nil {
			return nil, fmt.Errorf("update user name: %w", err)
		}
	}

	if old := previous.ProfilePhoto; old != nil && (trainer.ProfilePhoto == nil || *trainer.ProfilePhoto != *old) {
		if err := s.storage.RemoveProfileImage(ctx, trainer.ID, *old); err != nil {
			s.logger.Warn("Failed to remove replaced profile image",
				zap.String("trainer_id", trainer.ID.String()), zap.Error(err))
		}
	}

	if err := s.cacheSvc.DeleteTrainerPage(ctx, trainer.Subdomain); err != nil {
		s.logger.Warn("Failed to invalidate public page cache",
			zap.String("subdomain", trainer.Subdomain), zap.Error(err))
	}
	if err := s.cacheSvc.InvalidateDashboardStats(ctx, trainer.ID); err != nil {
		s.logger.Warn("Failed to invalidate dashboard stats",
			zap.String("trainer_id", trainer.ID.String()), zap.Error(err))
	}
	return trainer, nil
}

// GetPublicPage looks a tenant up by label, through the cache. Labels that can
// never be assigned are reported missing without a store lookup.
func (s *trainerService) GetPublicPage(ctx context.Context, label string) (*models.PublicPage, error) {
	label = strings.ToLower(label)
	if !subdomain.IsValidLabel(label) {
		return nil, models.ErrNotFound
	}

	page, err := s.cacheSvc.GetTrainerPage(ctx, label)
	if err != nil {
		s.logger.Warn("Public page cache read failed", zap.String("subdomain", label), zap.Error(err))
	} else if page != nil {
		return page, nil
	}

	trainer, err := s.trainerRepo.GetBySubdomain(ctx, label)
	if err != nil {
		return nil, err
	}

	page = trainer.PublicPage()
	if err := s.cacheSvc.SetTrainerPage(ctx, page, s.pageTTL); err != nil {
		s.logger.Warn("Public page cache write failed", zap.String("subdomain", label), zap.Error(err))
	}
	return page, nil
}
