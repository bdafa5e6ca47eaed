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
	ErrTenantNameRequired = errors.New("tenant name is required")
	ErrInvalidCategory    = errors.New("invalid tenant category")
	ErrTenantNotFound     = errors.New("tenant not found")
)

// TrialPeriod is how long a fresh tenant's subscription stays on trial.
const TrialPeriod = 14 * 24 * time.Hour

// TenantService creates tenants and reads tenant-level records.
type TenantService struct {
	policy            *PolicyService
	tenantStore       domain.TenantStore
	subscriptionStore domain.SubscriptionStore
	logger            *zap.Logger
}

func NewTenantService(policy *PolicyService, ts domain.TenantStore, ss domain.SubscriptionStore, logger *zap.Logger) *TenantService {
	return &TenantService{
		policy:            policy,
		tenantStore:       ts,
		subscriptionStore: ss,
		logger:            logger,
	}
}

// Create registers a new tenant owned by the calling principal. The store
// writes the tenant, the owner's membership and a trial subscription in
// one transaction, so a tenant can never exist half-bootstrapped.
func (s *TenantService) Create(ctx context.Context, ownerID uuid.UUID, name string, category domain.TenantCategory, settings map[string]any) (*domain.Tenant, error) {
	if name == "" {
		return nil, ErrTenantNameRequired
	}
	if !domain.ValidTenantCategory(string(category)) {
		return nil, ErrInvalidCategory
	}

	t := &domain.Tenant{
		OwnerID:  ownerID,
		Name:     name,
		Category: category,
		Settings: settings,
	}
	if err := s.tenantStore.Create(ctx, t, time.Now().Add(TrialPeriod)); err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("category", string(t.Category)))
	return t, nil
}

// Get returns the tenant to any active member.
func (s *TenantService) Get(ctx context.Context, callerID, tenantID uuid.UUID) (*domain.Tenant, error) {
	return s.policy.AuthorizeTenant(ctx, callerID, tenantID, domain.ActionViewDashboard)
}

// GetSubscription returns the tenant's subscription to any active member.
func (s *TenantService) GetSubscription(ctx context.Context, callerID, tenantID uuid.UUID) (*domain.Subscription, error) {
	if err := s.policy.Authorize(ctx, callerID, tenantID, domain.ActionViewDashboard); err != nil {
		return nil, err
	}
	sub, err := s.subscriptionStore.GetByTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return sub, nil
}
