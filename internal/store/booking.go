package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type BookingStore struct {
	db *pgxpool.Pool
}

func NewBookingStore(db *pgxpool.Pool) *BookingStore {
	return &BookingStore{db: db}
}

func (s *BookingStore) CreateUnit(ctx context.Context, u *domain.ResourceUnit) error {
	if u.Status == "" {
		u.Status = domain.UnitAvailable
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO resource_units (tenant_id, name, unit_type, status, nightly_rate)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.TenantID, u.Name, u.UnitType, u.Status, u.NightlyRate,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (s *BookingStore) GetUnit(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.ResourceUnit, error) {
	u := &domain.ResourceUnit{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, unit_type, status, nightly_rate, created_at, updated_at
		 FROM resource_units WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&u.ID, &u.TenantID, &u.Name, &u.UnitType, &u.Status, &u.NightlyRate, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *BookingStore) ListUnits(ctx context.Context, tenantID uuid.UUID) ([]domain.ResourceUnit, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, unit_type, status, nightly_rate, created_at, updated_at
		 FROM resource_units WHERE tenant_id = $1
		 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.ResourceUnit
	for rows.Next() {
		var u domain.ResourceUnit
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Name, &u.UnitType, &u.Status, &u.NightlyRate, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// CreateReservation inserts the reservation and transitions the attached
// unit to occupied in the same transaction. The unit row is locked first so
// two concurrent bookings serialize; date ranges overlapping a confirmed or
// checked-in stay on the unit are rejected.
func (s *BookingStore) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.ResourceUnitID != nil {
		var unitID uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM resource_units
			 WHERE id = $1 AND tenant_id = $2
			 FOR UPDATE`,
			*r.ResourceUnitID, r.TenantID,
		).Scan(&unitID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		var overlaps bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (
			    SELECT 1 FROM reservations
			    WHERE resource_unit_id = $1
			      AND status IN ($2, $3)
			      AND check_in < $5
			      AND check_out > $4
			 )`,
			*r.ResourceUnitID, domain.ReservationConfirmed, domain.ReservationCheckedIn,
			r.CheckIn, r.CheckOut,
		).Scan(&overlaps)
		if err != nil {
			return err
		}
		if overlaps {
			return ErrUnitUnavailable
		}
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO reservations
		   (tenant_id, resource_unit_id, guest_name, guest_phone, check_in, check_out,
		    guests, total_amount, paid_amount, status, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		r.TenantID, r.ResourceUnitID, r.GuestName, r.GuestPhone, r.CheckIn, r.CheckOut,
		r.Guests, r.TotalAmount, r.PaidAmount, r.Status, r.PaymentStatus,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return err
	}

	if r.ResourceUnitID != nil {
		_, err = tx.Exec(ctx,
			`UPDATE resource_units SET status = $3, updated_at = NOW()
			 WHERE id = $1 AND tenant_id = $2`,
			*r.ResourceUnitID, r.TenantID, domain.UnitOccupied,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
