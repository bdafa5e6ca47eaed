package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
)

// ErrNotAuthorized is the single policy-denial error. It deliberately
// carries no detail: an unauthorized caller cannot tell a denied action
// from a tenant that does not exist.
var ErrNotAuthorized = errors.New("not authorized")

// PolicyService evaluates (principal, tenant, action). Evaluation is a
// pure read and safe to repeat within one request.
type PolicyService struct {
	tenantStore     domain.TenantStore
	membershipStore domain.MembershipStore
}

func NewPolicyService(ts domain.TenantStore, ms domain.MembershipStore) *PolicyService {
	return &PolicyService{tenantStore: ts, membershipStore: ms}
}

// AuthorizeTenant evaluates the action and returns the tenant on allow,
// saving callers that need the tenant row a second lookup.
//
// Ownership is checked against Tenant.OwnerID before any membership read.
// That ordering is load-bearing: authorizing a mutation of the membership
// table itself must not depend on a membership row existing, or the very
// first (owner) membership could never be inserted.
func (p *PolicyService) AuthorizeTenant(ctx context.Context, principalID, tenantID uuid.UUID, action domain.Action) (*domain.Tenant, error) {
	tenant, err := p.tenantStore.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}

	if tenant.OwnerID == principalID {
		return tenant, nil
	}

	m, err := p.membershipStore.GetByTenantAndPrincipal(ctx, tenantID, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if !m.Active || !domain.RoleCan(m.Role, action) {
		return nil, ErrNotAuthorized
	}
	return tenant, nil
}

func (p *PolicyService) Authorize(ctx context.Context, principalID, tenantID uuid.UUID, action domain.Action) error {
	_, err := p.AuthorizeTenant(ctx, principalID, tenantID, action)
	return err
}

// ResolveMembership returns the principal's active membership in the
// tenant, or ErrNotAuthorized when there is none. Inactive rows count as
// absent here; only the invitation workflow looks at them.
func (p *PolicyService) ResolveMembership(ctx context.Context, principalID, tenantID uuid.UUID) (*domain.Membership, error) {
	m, err := p.membershipStore.GetByTenantAndPrincipal(ctx, tenantID, principalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if !m.Active {
		return nil, ErrNotAuthorized
	}
	return m, nil
}
