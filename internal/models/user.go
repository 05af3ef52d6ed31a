package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RolePrimaryTrainer = "PRIMARY_TRAINER"
	RoleTrainer        = "TRAINER"
)

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	TrainerID    *uuid.UUID `json:"trainerId" db:"trainer_id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Name         string     `json:"name" db:"name"`
	Role         string     `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
