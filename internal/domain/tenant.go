package domain

import (
	"time"

	"github.com/google/uuid"
)

type TenantCategory string

const (
	CategoryHardware    TenantCategory = "hardware"
	CategorySupermarket TenantCategory = "supermarket"
	CategoryRentals     TenantCategory = "rentals"
	CategoryShortStay   TenantCategory = "short_stay"
	CategoryHotel       TenantCategory = "hotel"
	CategorySchool      TenantCategory = "school"
)

func ValidTenantCategory(s string) bool {
	switch TenantCategory(s) {
	case CategoryHardware, CategorySupermarket, CategoryRentals,
		CategoryShortStay, CategoryHotel, CategorySchool:
		return true
	}
	return false
}

// Tenant is an isolated business account. OwnerID is a primitive fact:
// the owner has full rights even with no membership row.
type Tenant struct {
	ID        uuid.UUID      `json:"id"`
	OwnerID   uuid.UUID      `json:"owner_id"`
	Name      string         `json:"name"`
	Category  TenantCategory `json:"category"`
	Settings  map[string]any `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsRetail reports whether the tenant sells from a catalog.
func (t *Tenant) IsRetail() bool {
	return t.Category == CategoryHardware || t.Category == CategorySupermarket
}

// IsHospitality reports whether the tenant books resource units.
func (t *Tenant) IsHospitality() bool {
	return t.Category == CategoryHotel || t.Category == CategoryShortStay
}

type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// Subscription is created automatically with its tenant, starting as trial.
type Subscription struct {
	ID           uuid.UUID          `json:"id"`
	TenantID     uuid.UUID          `json:"tenant_id"`
	Status       SubscriptionStatus `json:"status"`
	TrialEndsAt  time.Time          `json:"trial_ends_at"`
	PeriodEndsAt *time.Time         `json:"period_ends_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
