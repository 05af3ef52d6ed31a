package repositories

import (
	"context"
	"errors"
	"fmt"

	"trainerdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	trainerSubdomainKey = "trainers_subdomain_key"
	userEmailKey        = "users_email_key"
)

const trainerColumns = `id, business_name, subdomain, bio, phone, timezone, profile_photo,
		subscription_tier, sms_credits, email_credits, created_at, updated_at`

type TrainerRepository interface {
	CreateWithPrimaryUser(ctx context.Context, trainer *models.Trainer, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*models.Trainer, error)
	SubdomainExists(ctx context.Context, subdomain string) (bool, error)
	UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Trainer, error)
	ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error)
}

type trainerRepo struct {
	db Database
}

func NewTrainerRepo(db Database) TrainerRepository {
	return &trainerRepo{db: db}
}

// CreateWithPrimaryUser inserts the trainer and its owning user atomically.
// A collision on the subdomain or email unique constraint is reported as
// models.ErrSubdomainTaken or models.ErrEmailTaken.
func (r *trainerRepo) CreateWithPrimaryUser(ctx context.Context, trainer *models.Trainer, user *models.User) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	trainerQuery := `
		INSERT INTO trainers (id, business_name, subdomain, timezone, subscription_tier, sms_credits, email_credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, trainerQuery, trainer.ID, trainer.BusinessName, trainer.Subdomain, trainer.Timezone,
		trainer.SubscriptionTier, trainer.SMSCredits, trainer.EmailCredits)
	if err != nil {
		return translateCreateError(err)
	}

	userQuery := `
		INSERT INTO users (id, email, name, password_hash, role, trainer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err = tx.Exec(ctx, userQuery, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.TrainerID)
	if err != nil {
		return translateCreateError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func translateCreateError(err error) error {
	constraint, ok := uniqueConstraint(err)
	if !ok {
		return err
	}
	switch constraint {
	case trainerSubdomainKey:
		return fmt.Errorf("%w: %v", models.ErrSubdomainTaken, err)
	case userEmailKey:
		return fmt.Errorf("%w: %v", models.ErrEmailTaken, err)
	}
	return err
}

func (r *trainerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers WHERE id = $1`
	return scanTrainer(r.db.QueryRow(ctx, query, id))
}

func (r *trainerRepo) GetBySubdomain(ctx context.Context, subdomain string) (*models.Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers WHERE subdomain = $1`
	return scanTrainer(r.db.QueryRow(ctx, query, subdomain))
}

func (r *trainerRepo) SubdomainExists(ctx context.Context, subdomain string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM trainers WHERE subdomain = $1)`
	if err := r.db.QueryRow(ctx, query, subdomain).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateProfile writes the editable settings. The subdomain column is never touched.
func (r *trainerRepo) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Trainer, error) {
	query := `
		UPDATE trainers
		SET business_name = $1, bio = $2, phone = $3, timezone = $4, profile_photo = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING ` + trainerColumns
	return scanTrainer(r.db.QueryRow(ctx, query, update.BusinessName, update.Bio, update.Phone,
		update.Timezone, update.ProfilePhoto, update.TrainerID))
}

func (r *trainerRepo) ListIDs(ctx context.Context, limit, offset int) ([]uuid.UUID, error) {
	query := `SELECT id FROM trainers ORDER BY created_at, id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanTrainer(row pgx.Row) (*models.Trainer, error) {
	t := &models.Trainer{}
	err := row.Scan(&t.ID, &t.BusinessName, &t.Subdomain, &t.Bio, &t.Phone, &t.Timezone, &t.ProfilePhoto,
		&t.SubscriptionTier, &t.SMSCredits, &t.EmailCredits, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}
