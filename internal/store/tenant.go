package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

// Create inserts the tenant, bootstraps the owner's membership and opens a
// trial subscription in one transaction. The owner membership is written
// directly rather than through the invitation workflow: at this point no
// membership exists yet to authorize against, ownership itself is the
// authorizing fact.
func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant, trialEndsAt time.Time) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO tenants (owner_id, name, category, settings)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.OwnerID, t.Name, t.Category, t.Settings,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO memberships (tenant_id, principal_id, role, active, invited_at)
		 VALUES ($1, $2, $3, TRUE, NOW())`,
		t.ID, t.OwnerID, domain.RoleOwner,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO subscriptions (tenant_id, status, trial_ends_at)
		 VALUES ($1, $2, $3)`,
		t.ID, domain.SubscriptionTrial, trialEndsAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, owner_id, name, category, settings, created_at, updated_at
		 FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.OwnerID, &t.Name, &t.Category, &t.Settings, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

type SubscriptionStore struct {
	db *pgxpool.Pool
}

func NewSubscriptionStore(db *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Subscription, error) {
	sub := &domain.Subscription{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, status, trial_ends_at, period_ends_at, created_at, updated_at
		 FROM subscriptions WHERE tenant_id = $1`,
		tenantID,
	).Scan(&sub.ID, &sub.TenantID, &sub.Status, &sub.TrialEndsAt, &sub.PeriodEndsAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionStore) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE subscriptions
		 SET status = $1, updated_at = NOW()
		 WHERE (status = $2 AND trial_ends_at < $4)
		    OR (status = $3 AND period_ends_at IS NOT NULL AND period_ends_at < $4)`,
		domain.SubscriptionExpired, domain.SubscriptionTrial, domain.SubscriptionActive, now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
