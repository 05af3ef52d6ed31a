package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trainerdesk/internal/models"

	"github.com/google/uuid"
)

type BookingRepository interface {
	Count(ctx context.Context, trainerID uuid.UUID, filter models.BookingFilter) (int, error)
	SumDuration(ctx context.Context, trainerID uuid.UUID, from, to time.Time) (int, error)
	ListUpcoming(ctx context.Context, trainerID uuid.UUID, now time.Time, limit int) ([]*models.UpcomingBooking, error)
}

type bookingRepo struct {
	db Database
}

func NewBookingRepo(db Database) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Count(ctx context.Context, trainerID uuid.UUID, filter models.BookingFilter) (int, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM bookings WHERE trainer_id = $1`)
	args := []any{trainerID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&sb, ` AND status = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, ` AND start_time >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, ` AND start_time <= $%d`, len(args))
	}

	var count int
	if err := r.db.QueryRow(ctx, sb.String(), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumDuration returns the booked minutes starting inside [from, to].
func (r *bookingRepo) SumDuration(ctx context.Context, trainerID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(duration), 0)
		FROM bookings
		WHERE trainer_id = $1 AND start_time >= $2 AND start_time <= $3
	`
	var minutes int
	if err := r.db.QueryRow(ctx, query, trainerID, from, to).Scan(&minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

func (r *bookingRepo) ListUpcoming(ctx context.Context, trainerID uuid.UUID, now time.Time, limit int) ([]*models.UpcomingBooking, error) {
	query := `
		SELECT b.id, b.start_time, b.end_time, b.duration, b.status, c.id, c.name, c.email
		FROM bookings b
		JOIN clients c ON c.id = b.client_id
		WHERE b.trainer_id = $1 AND b.start_time >= $2 AND b.status IN ($3, $4)
		ORDER BY b.start_time ASC
		LIMIT $5
	`
	rows, err := r.db.Query(ctx, query, trainerID, now, models.BookingPending, models.BookingConfirmed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*models.UpcomingBooking, 0, limit)
	for rows.Next() {
		b := &models.UpcomingBooking{}
		if err := rows.Scan(&b.ID, &b.StartTime, &b.EndTime, &b.Duration, &b.Status,
			&b.Client.ID, &b.Client.Name, &b.Client.Email); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
