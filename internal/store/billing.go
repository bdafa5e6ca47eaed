package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type BillingStore struct {
	db *pgxpool.Pool
}

func NewBillingStore(db *pgxpool.Pool) *BillingStore {
	return &BillingStore{db: db}
}

func (s *BillingStore) CreateLessee(ctx context.Context, l *domain.Lessee) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO lessees (tenant_id, name, phone, unit_label, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		l.TenantID, l.Name, l.Phone, l.UnitLabel, l.Active,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (s *BillingStore) GetLessee(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Lessee, error) {
	l := &domain.Lessee{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, phone, unit_label, active, created_at, updated_at
		 FROM lessees WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&l.ID, &l.TenantID, &l.Name, &l.Phone, &l.UnitLabel, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *BillingStore) CreateStudent(ctx context.Context, st *domain.Student) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO students (tenant_id, name, guardian_phone, class_label, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		st.TenantID, st.Name, st.GuardianPhone, st.ClassLabel, st.Active,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

func (s *BillingStore) GetStudent(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Student, error) {
	st := &domain.Student{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, guardian_phone, class_label, active, created_at, updated_at
		 FROM students WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&st.ID, &st.TenantID, &st.Name, &st.GuardianPhone, &st.ClassLabel, &st.Active, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *BillingStore) CreateRentPayment(ctx context.Context, p *domain.RentPayment) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO rent_payments (tenant_id, lessee_id, amount, status, period, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.TenantID, p.LesseeID, p.Amount, p.Status, p.Period, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *BillingStore) CreateFeePayment(ctx context.Context, p *domain.FeePayment) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO fee_payments (tenant_id, student_id, amount, status, period, paid_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.TenantID, p.StudentID, p.Amount, p.Status, p.Period, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
}
