package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type MembershipStore struct {
	db *pgxpool.Pool
}

func NewMembershipStore(db *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{db: db}
}

func (s *MembershipStore) Create(ctx context.Context, m *domain.Membership) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO memberships (tenant_id, principal_id, role, active, invited_by, invited_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		m.TenantID, m.PrincipalID, m.Role, m.Active, m.InvitedBy, m.InvitedAt,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if isUniqueViolation(err) {
		// UNIQUE(tenant_id, principal_id) lost a race with another invite.
		return ErrDuplicate
	}
	return err
}

func (s *MembershipStore) GetByTenantAndPrincipal(ctx context.Context, tenantID, principalID uuid.UUID) (*domain.Membership, error) {
	m := &domain.Membership{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, principal_id, role, active, invited_by, invited_at, created_at, updated_at
		 FROM memberships WHERE tenant_id = $1 AND principal_id = $2`,
		tenantID, principalID,
	).Scan(&m.ID, &m.TenantID, &m.PrincipalID, &m.Role, &m.Active, &m.InvitedBy, &m.InvitedAt, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *MembershipStore) Reactivate(ctx context.Context, id uuid.UUID, role domain.Role, invitedBy uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE memberships
		 SET role = $2, active = TRUE, invited_by = $3, invited_at = NOW(), updated_at = NOW()
		 WHERE id = $1`,
		id, role, invitedBy,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MembershipStore) Deactivate(ctx context.Context, tenantID, principalID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE memberships SET active = FALSE, updated_at = NOW()
		 WHERE tenant_id = $1 AND principal_id = $2 AND active`,
		tenantID, principalID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MembershipStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Membership, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, principal_id, role, active, invited_by, invited_at, created_at, updated_at
		 FROM memberships WHERE tenant_id = $1
		 ORDER BY created_at`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.TenantID, &m.PrincipalID, &m.Role, &m.Active, &m.InvitedBy, &m.InvitedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
