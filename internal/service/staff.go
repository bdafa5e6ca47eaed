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
	ErrPrincipalNotFound  = errors.New("no registered account for that contact")
	ErrAlreadyMember      = errors.New("principal is already an active member")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrInvalidRole        = errors.New("invalid role")
	ErrCannotRemoveOwner  = errors.New("the tenant owner cannot be removed")
)

// StaffService runs the staff invitation and removal workflows.
type StaffService struct {
	policy          *PolicyService
	principalStore  domain.PrincipalStore
	membershipStore domain.MembershipStore
	logger          *zap.Logger
}

func NewStaffService(policy *PolicyService, ps domain.PrincipalStore, ms domain.MembershipStore, logger *zap.Logger) *StaffService {
	return &StaffService{
		policy:          policy,
		principalStore:  ps,
		membershipStore: ms,
		logger:          logger,
	}
}

// Invite adds a membership for an existing principal. The workflow never
// creates accounts: an unknown email fails with ErrPrincipalNotFound.
// State machine: no membership -> active, inactive -> reactivated with the
// new role, active -> ErrAlreadyMember.
func (s *StaffService) Invite(ctx context.Context, inviterID, tenantID uuid.UUID, inviteeEmail string, role domain.Role) (*domain.Membership, error) {
	if !domain.ValidRole(string(role)) || role == domain.RoleOwner {
		return nil, ErrInvalidRole
	}

	if err := s.policy.Authorize(ctx, inviterID, tenantID, domain.ActionManageStaff); err != nil {
		return nil, err
	}

	invitee, err := s.principalStore.GetByEmail(ctx, inviteeEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}

	existing, err := s.membershipStore.GetByTenantAndPrincipal(ctx, tenantID, invitee.ID)
	switch {
	case err == nil:
		if existing.Active {
			return nil, ErrAlreadyMember
		}
		if err := s.membershipStore.Reactivate(ctx, existing.ID, role, inviterID); err != nil {
			return nil, err
		}
		existing.Role = role
		existing.Active = true
		existing.InvitedBy = &inviterID
		existing.InvitedAt = time.Now()
		s.logger.Info("membership reactivated",
			zap.String("tenant_id", tenantID.String()),
			zap.String("principal_id", invitee.ID.String()),
			zap.String("role", string(role)))
		return existing, nil
	case errors.Is(err, store.ErrNotFound):
		// fall through to insert
	default:
		return nil, err
	}

	m := &domain.Membership{
		TenantID:    tenantID,
		PrincipalID: invitee.ID,
		Role:        role,
		Active:      true,
		InvitedBy:   &inviterID,
		InvitedAt:   time.Now(),
	}
	if err := s.membershipStore.Create(ctx, m); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost a race with a concurrent invite for the same pair.
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	s.logger.Info("staff invited",
		zap.String("tenant_id", tenantID.String()),
		zap.String("principal_id", invitee.ID.String()),
		zap.String("role", string(role)))
	return m, nil
}

// Remove deactivates a membership. The row is kept so a later re-invite
// reactivates it with its history intact.
func (s *StaffService) Remove(ctx context.Context, removerID, tenantID, principalID uuid.UUID) error {
	tenant, err := s.policy.AuthorizeTenant(ctx, removerID, tenantID, domain.ActionManageStaff)
	if err != nil {
		return err
	}
	if tenant.OwnerID == principalID {
		return ErrCannotRemoveOwner
	}

	if err := s.membershipStore.Deactivate(ctx, tenantID, principalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMembershipNotFound
		}
		return err
	}

	s.logger.Info("staff removed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("principal_id", principalID.String()))
	return nil
}

// List returns every membership row of the tenant, active or not.
func (s *StaffService) List(ctx context.Context, callerID, tenantID uuid.UUID) ([]domain.Membership, error) {
	if err := s.policy.Authorize(ctx, callerID, tenantID, domain.ActionManageStaff); err != nil {
		return nil, err
	}
	return s.membershipStore.ListByTenant(ctx, tenantID)
}
