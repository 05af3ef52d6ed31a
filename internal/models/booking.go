package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking statuses
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCompleted = "COMPLETED"
	BookingCancelled = "CANCELLED"
	BookingNoShow    = "NO_SHOW"
)

type Booking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TrainerID uuid.UUID `json:"trainerId" db:"trainer_id"`
	ClientID  uuid.UUID `json:"clientId" db:"client_id"`
	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`
	Duration  int       `json:"duration" db:"duration"` // minutes
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UpcomingBooking is a booking with its client, as shown on the dashboard
type UpcomingBooking struct {
	ID        uuid.UUID     `json:"id"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  int           `json:"duration"`
	Status    string        `json:"status"`
	Client    ClientSummary `json:"client"`
}

// BookingFilter narrows booking counts. Nil fields are not applied; From and To
// are inclusive bounds on start_time.
type BookingFilter struct {
	Status *string
	From   *time.Time
	To     *time.Time
}
