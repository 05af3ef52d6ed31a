package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trainerdesk/internal/common"
	"trainerdesk/internal/models"
	"trainerdesk/internal/repositories"
	"trainerdesk/internal/subdomain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	BusinessName    string `json:"businessName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Validate returns common.ValidationErrors describing every invalid field.
func (r *RegisterRequest) Validate() error {
	var errs common.ValidationErrors
	errs.Check(common.MinLength(r.Name, 2), "name", "Name must be at least 2 characters")
	errs.Check(common.ValidEmail(NormalizeEmail(r.Email)), "email", "Invalid email address")
	errs.Check(common.MinLength(r.BusinessName, 2), "businessName", "Business name must be at least 2 characters")
	errs.Check(len(r.Password) >= minPasswordLength, "password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	errs.Check(r.Password == r.ConfirmPassword, "confirmPassword", "Passwords do not match")
	return errs.Err()
}

type RegistrationResult struct {
	User    *models.User
	Trainer *models.Trainer
}

// RegistrationService signs up a trainer business together with its owner account
type RegistrationService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegistrationResult, error)
}

type registrationService struct {
	trainerRepo repositories.TrainerRepository
	userRepo    repositories.UserRepository
	allocator   *subdomain.Allocator
	logger      *zap.Logger
}

func NewRegistrationService(trainerRepo repositories.TrainerRepository, userRepo repositories.UserRepository, allocator *subdomain.Allocator, logger *zap.Logger) RegistrationService {
	return &registrationService{
		trainerRepo: trainerRepo,
		userRepo:    userRepo,
		allocator:   allocator,
		logger:      logger,
	}
}

// Register creates the trainer and its PRIMARY_TRAINER user in one transaction.
// The subdomain is derived from the business name; a label lost to a concurrent
// signup is retried with the next suffix.
func (s *registrationService) Register(ctx context.Context, req *RegisterRequest) (*RegistrationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	businessName := strings.TrimSpace(req.BusinessName)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, models.ErrEmailTaken
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var result *RegistrationResult
	claim := func(ctx context.Context, label string) error {
		now := time.Now()
		trainerID := uuid.New()
		trainer := &models.Trainer{
			ID:               trainerID,
			BusinessName:     businessName,
			Subdomain:        label,
			Timezone:         models.DefaultTimezone,
			SubscriptionTier: models.TierFree,
			SMSCredits:       models.DefaultSMSCredits,
			EmailCredits:     models.DefaultEmailCredits,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		user := &models.User{
			ID:           uuid.New(),
			TrainerID:    &trainerID,
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
			Role:         models.RolePrimaryTrainer,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err := s.trainerRepo.CreateWithPrimaryUser(ctx, trainer, user)
		if errors.Is(err, models.ErrSubdomainTaken) {
			s.logger.Info("Subdomain claimed concurrently, trying next suffix", zap.String("subdomain", label))
			return fmt.Errorf("%w: %v", subdomain.ErrLabelTaken, err)
		}
		if err != nil {
			return err
		}
		result = &RegistrationResult{User: user, Trainer: trainer}
		return nil
	}

	label, err := s.allocator.AllocateWith(ctx, businessName, claim)
	if err != nil {
		if errors.Is(err, subdomain.ErrEmptyLabel) {
			var errs common.ValidationErrors
			errs.Add("businessName", "Business name must contain at least one letter or digit")
			return nil, errs
		}
		return nil, err
	}

	s.logger.Info("Trainer registered",
		zap.String("trainer_id", result.Trainer.ID.String()),
		zap.String("subdomain", label),
	)
	return result, nil
}
