package repositories

import (
	"context"

	"github.com/google/uuid"
)

type ClientRepository interface {
	Count(ctx context.Context, trainerID uuid.UUID) (int, error)
	CountActive(ctx context.Context, trainerID uuid.UUID) (int, error)
}

type clientRepo struct {
	db Database
}

func NewClientRepo(db Database) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Count(ctx context.Context, trainerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM clients WHERE trainer_id = $1`
	if err := r.db.QueryRow(ctx, query, trainerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts clients with at least one booking.
func (r *clientRepo) CountActive(ctx context.Context, trainerID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM clients c
		WHERE c.trainer_id = $1
		  AND EXISTS (SELECT 1 FROM bookings b WHERE b.client_id = c.id)
	`
	if err := r.db.QueryRow(ctx, query, trainerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
