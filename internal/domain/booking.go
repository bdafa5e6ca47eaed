package domain

import (
	"time"

	"github.com/google/uuid"
)

type UnitStatus string

const (
	UnitAvailable   UnitStatus = "available"
	UnitOccupied    UnitStatus = "occupied"
	UnitMaintenance UnitStatus = "maintenance"
)

// ResourceUnit is a bookable room or listing.
type ResourceUnit struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Name        string     `json:"name"`
	UnitType    string     `json:"unit_type,omitempty"`
	Status      UnitStatus `json:"status"`
	NightlyRate int64      `json:"nightly_rate"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// Reservation is a guest's booking, optionally tied to one resource unit.
// Creation starts at confirmed/pending with nothing paid.
type Reservation struct {
	ID             uuid.UUID         `json:"id"`
	TenantID       uuid.UUID         `json:"tenant_id"`
	ResourceUnitID *uuid.UUID        `json:"resource_unit_id,omitempty"`
	GuestName      string            `json:"guest_name"`
	GuestPhone     string            `json:"guest_phone,omitempty"`
	CheckIn        time.Time         `json:"check_in"`
	CheckOut       time.Time         `json:"check_out"`
	Guests         int               `json:"guests"`
	TotalAmount    int64             `json:"total_amount"`
	PaidAmount     int64             `json:"paid_amount"`
	Status         ReservationStatus `json:"status"`
	PaymentStatus  PaymentStatus     `json:"payment_status"`
	CreatedAt      time.Time         `json:"created_at"`
}
