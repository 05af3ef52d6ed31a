package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tiers
const (
	TierFree = "FREE"
	TierPro  = "PRO"
)

// Signup allowances granted to every new trainer
const (
	DefaultSMSCredits   = 10
	DefaultEmailCredits = 50
	DefaultTimezone     = "America/New_York"
)

// Trainer is the tenant: one business reachable at <subdomain>.<base domain>.
// Subdomain is assigned once at registration and never changes.
type Trainer struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	BusinessName     string       `json:"businessName" db:"business_name"`
	Subdomain        string       `json:"subdomain" db:"subdomain"`
	Bio              *string      `json:"bio" db:"bio"`
	Phone            *string      `json:"phone" db:"phone"`
	Timezone         string       `json:"timezone" db:"timezone"`
	ProfilePhoto     *string      `json:"profilePhoto" db:"profile_photo"`
	SubscriptionTier string       `json:"subscriptionTier" db:"subscription_tier"`
	SMSCredits       int          `json:"smsCredits" db:"sms_credits"`
	EmailCredits     int          `json:"emailCredits" db:"email_credits"`
	CreatedAt        time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time    `json:"updatedAt" db:"updated_at"`
	User             *UserSummary `json:"user,omitempty" db:"-"`
}

// UserSummary is the owner block embedded in a trainer profile response
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PublicPage is what a visitor of a trainer's subdomain sees
type PublicPage struct {
	TrainerID    uuid.UUID `json:"trainerId"`
	BusinessName string    `json:"businessName"`
	Subdomain    string    `json:"subdomain"`
	Bio          *string   `json:"bio"`
	Timezone     string    `json:"timezone"`
	ProfilePhoto *string   `json:"profilePhoto"`
}

// PublicPage projects the trainer onto its public fields.
func (t *Trainer) PublicPage() *PublicPage {
	return &PublicPage{
		TrainerID:    t.ID,
		BusinessName: t.BusinessName,
		Subdomain:    t.Subdomain,
		Bio:          t.Bio,
		Timezone:     t.Timezone,
		ProfilePhoto: t.ProfilePhoto,
	}
}

// ProfileUpdate carries validated settings for a trainer.
// Empty optional strings are stored as NULL.
type ProfileUpdate struct {
	TrainerID    uuid.UUID
	BusinessName string
	Bio          *string
	Phone        *string
	Timezone     string
	ProfilePhoto *string
}
