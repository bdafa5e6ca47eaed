package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type StatsStore struct {
	db *pgxpool.Pool
}

func NewStatsStore(db *pgxpool.Pool) *StatsStore {
	return &StatsStore{db: db}
}

// RevenueSeries returns (amount, timestamp) pairs from whichever tables are
// relevant to the tenant's category, in storage order.
func (s *StatsStore) RevenueSeries(ctx context.Context, tenantID uuid.UUID, category domain.TenantCategory) ([]domain.RevenuePoint, error) {
	var query string
	switch category {
	case domain.CategoryHardware, domain.CategorySupermarket:
		query = `SELECT total, created_at, 'sale' FROM sales WHERE tenant_id = $1`
	case domain.CategoryRentals:
		query = `SELECT amount, created_at, 'rent' FROM rent_payments
		         WHERE tenant_id = $1 AND status = 'paid'`
	case domain.CategorySchool:
		query = `SELECT amount, created_at, 'fee' FROM fee_payments
		         WHERE tenant_id = $1 AND status = 'paid'`
	case domain.CategoryHotel, domain.CategoryShortStay:
		query = `SELECT total_amount, created_at, 'reservation' FROM reservations
		         WHERE tenant_id = $1 AND status <> 'cancelled'`
	default:
		return nil, nil
	}

	rows, err := s.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.RevenuePoint
	for rows.Next() {
		var p domain.RevenuePoint
		if err := rows.Scan(&p.Amount, &p.Timestamp, &p.Source); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// CustomerCount counts active lessees or students for the billing
// categories, and distinct customer/guest names otherwise.
func (s *StatsStore) CustomerCount(ctx context.Context, tenantID uuid.UUID, category domain.TenantCategory) (int, error) {
	var query string
	switch category {
	case domain.CategoryRentals:
		query = `SELECT COUNT(*) FROM lessees WHERE tenant_id = $1 AND active`
	case domain.CategorySchool:
		query = `SELECT COUNT(*) FROM students WHERE tenant_id = $1 AND active`
	case domain.CategoryHardware, domain.CategorySupermarket:
		query = `SELECT COUNT(DISTINCT customer_name) FROM sales
		         WHERE tenant_id = $1 AND customer_name <> ''`
	case domain.CategoryHotel, domain.CategoryShortStay:
		query = `SELECT COUNT(DISTINCT guest_name) FROM reservations WHERE tenant_id = $1`
	default:
		return 0, nil
	}

	var count int
	if err := s.db.QueryRow(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
