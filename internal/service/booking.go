package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
	"go.uber.org/zap"
)

var (
	ErrGuestNameRequired = errors.New("guest name is required")
	ErrInvalidDates      = errors.New("check-in must be before check-out")
	ErrInvalidGuests     = errors.New("guest count must be positive")
	ErrInvalidAmount     = errors.New("amount must not be negative")
	ErrUnitNotFound      = errors.New("resource unit not found")
	ErrUnitUnavailable   = errors.New("resource unit is not available for those dates")
	ErrUnitNameRequired  = errors.New("unit name is required")
)

// BookingService creates reservations and manages resource units.
type BookingService struct {
	policy       *PolicyService
	bookingStore domain.BookingStore
	logger       *zap.Logger
}

func NewBookingService(policy *PolicyService, bs domain.BookingStore, logger *zap.Logger) *BookingService {
	return &BookingService{policy: policy, bookingStore: bs, logger: logger}
}

// BookingRequest carries the validated guest input for a reservation.
type BookingRequest struct {
	GuestName      string
	GuestPhone     string
	CheckIn        time.Time
	CheckOut       time.Time
	Guests         int
	TotalAmount    int64
	ResourceUnitID *uuid.UUID
}

// Create books a stay. The reservation starts confirmed with payment
// pending and nothing paid; when a unit is attached it transitions to
// occupied in the same transaction, and overlapping confirmed stays on
// that unit are rejected.
func (s *BookingService) Create(ctx context.Context, principalID, tenantID uuid.UUID, req BookingRequest) (*domain.Reservation, error) {
	if err := s.policy.Authorize(ctx, principalID, tenantID, domain.ActionManageReservations); err != nil {
		return nil, err
	}

	if req.GuestName == "" {
		return nil, ErrGuestNameRequired
	}
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, ErrInvalidDates
	}
	if req.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if req.TotalAmount < 0 {
		return nil, ErrInvalidAmount
	}

	r := &domain.Reservation{
		TenantID:       tenantID,
		ResourceUnitID: req.ResourceUnitID,
		GuestName:      req.GuestName,
		GuestPhone:     req.GuestPhone,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Guests:         req.Guests,
		TotalAmount:    req.TotalAmount,
		PaidAmount:     0,
		Status:         domain.ReservationConfirmed,
		PaymentStatus:  domain.PaymentPending,
	}

	if err := s.bookingStore.CreateReservation(ctx, r); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrUnitNotFound
		case errors.Is(err, store.ErrUnitUnavailable):
			return nil, ErrUnitUnavailable
		}
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reservation_id", r.ID.String()),
		zap.Time("check_in", r.CheckIn),
		zap.Time("check_out", r.CheckOut))
	return r, nil
}

func (s *BookingService) CreateUnit(ctx context.Context, principalID, tenantID uuid.UUID, name, unitType string, nightlyRate int64) (*domain.ResourceUnit, error) {
	if err := s.policy.Authorize(ctx, principalID, tenantID, domain.ActionManageUnits); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrUnitNameRequired
	}
	if nightlyRate < 0 {
		return nil, ErrInvalidAmount
	}

	u := &domain.ResourceUnit{
		TenantID:    tenantID,
		Name:        name,
		UnitType:    unitType,
		Status:      domain.UnitAvailable,
		NightlyRate: nightlyRate,
	}
	if err := s.bookingStore.CreateUnit(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *BookingService) ListUnits(ctx context.Context, principalID, tenantID uuid.UUID) ([]domain.ResourceUnit, error) {
	if err := s.policy.Authorize(ctx, principalID, tenantID, domain.ActionManageReservations); err != nil {
		return nil, err
	}
	return s.bookingStore.ListUnits(ctx, tenantID)
}
