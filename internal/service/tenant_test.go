package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
)

type mockSubscriptionStore struct {
	tenants *mockTenantStore
	expired int64
	calls   int
}

func (m *mockSubscriptionStore) GetByTenant(ctx context.Context, tenantID uuid.UUID) (*domain.Subscription, error) {
	sub, ok := m.tenants.subscriptions[tenantID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return sub, nil
}

func (m *mockSubscriptionStore) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	m.calls++
	var count int64
	for _, sub := range m.tenants.subscriptions {
		switch sub.Status {
		case domain.SubscriptionTrial:
			if sub.TrialEndsAt.Before(now) {
				sub.Status = domain.SubscriptionExpired
				count++
			}
		case domain.SubscriptionActive:
			if sub.PeriodEndsAt != nil && sub.PeriodEndsAt.Before(now) {
				sub.Status = domain.SubscriptionExpired
				count++
			}
		}
	}
	m.expired += count
	return count, nil
}

func TestTenantService_CreateBootstraps(t *testing.T) {
	memberships := newMockMembershipStore()
	tenants := newMockTenantStore(memberships)
	subs := &mockSubscriptionStore{tenants: tenants}
	policy := NewPolicyService(tenants, memberships)
	svc := NewTenantService(policy, tenants, subs, testLogger())

	ownerID := uuid.New()
	ctx := context.Background()

	tenant, err := svc.Create(ctx, ownerID, "Mama Njeri Supermarket", domain.CategorySupermarket, map[string]any{"currency": "KES"})
	if err != nil {
		t.Fatalf("create tenant failed: %v", err)
	}
	if tenant.OwnerID != ownerID {
		t.Fatalf("expected owner %s, got %s", ownerID, tenant.OwnerID)
	}

	// The owner comes out of bootstrap with an active owner membership.
	m, err := memberships.GetByTenantAndPrincipal(ctx, tenant.ID, ownerID)
	if err != nil {
		t.Fatalf("expected owner membership, got %v", err)
	}
	if m.Role != domain.RoleOwner || !m.Active {
		t.Fatalf("unexpected owner membership: %+v", m)
	}

	// And a trial subscription ending roughly TrialPeriod out.
	sub, err := svc.GetSubscription(ctx, ownerID, tenant.ID)
	if err != nil {
		t.Fatalf("get subscription failed: %v", err)
	}
	if sub.Status != domain.SubscriptionTrial {
		t.Fatalf("expected trial subscription, got %s", sub.Status)
	}
	remaining := time.Until(sub.TrialEndsAt)
	if remaining < TrialPeriod-time.Minute || remaining > TrialPeriod+time.Minute {
		t.Fatalf("unexpected trial end %v", sub.TrialEndsAt)
	}
}

func TestTenantService_CreateValidation(t *testing.T) {
	memberships := newMockMembershipStore()
	tenants := newMockTenantStore(memberships)
	policy := NewPolicyService(tenants, memberships)
	svc := NewTenantService(policy, tenants, &mockSubscriptionStore{tenants: tenants}, testLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, uuid.New(), "", domain.CategoryHardware, nil); err != ErrTenantNameRequired {
		t.Fatalf("expected ErrTenantNameRequired, got %v", err)
	}
	if _, err := svc.Create(ctx, uuid.New(), "Shop", domain.TenantCategory("bakery"), nil); err != ErrInvalidCategory {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestTenantService_GetRequiresMembership(t *testing.T) {
	f := setupPolicy(t, domain.CategoryHardware)
	subs := &mockSubscriptionStore{tenants: f.tenantStore}
	svc := NewTenantService(f.policy, f.tenantStore, subs, testLogger())
	ctx := context.Background()

	if _, err := svc.Get(ctx, f.ownerID, f.tenant.ID); err != nil {
		t.Fatalf("owner get failed: %v", err)
	}
	cashierID := f.addMember(t, domain.RoleCashier, true)
	if _, err := svc.Get(ctx, cashierID, f.tenant.ID); err != nil {
		t.Fatalf("member get failed: %v", err)
	}
	if _, err := svc.Get(ctx, uuid.New(), f.tenant.ID); err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for stranger, got %v", err)
	}
}

func TestSubscriptionExpiry(t *testing.T) {
	memberships := newMockMembershipStore()
	tenants := newMockTenantStore(memberships)
	subs := &mockSubscriptionStore{tenants: tenants}
	ctx := context.Background()

	lapsed := &domain.Tenant{OwnerID: uuid.New(), Name: "Lapsed", Category: domain.CategoryHardware}
	if err := tenants.Create(ctx, lapsed, time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	fresh := &domain.Tenant{OwnerID: uuid.New(), Name: "Fresh", Category: domain.CategoryHardware}
	if err := tenants.Create(ctx, fresh, time.Now().Add(TrialPeriod)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	count, err := subs.ExpireLapsed(ctx, time.Now())
	if err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired subscription, got %d", count)
	}
	if tenants.subscriptions[lapsed.ID].Status != domain.SubscriptionExpired {
		t.Fatalf("expected lapsed tenant expired, got %s", tenants.subscriptions[lapsed.ID].Status)
	}
	if tenants.subscriptions[fresh.ID].Status != domain.SubscriptionTrial {
		t.Fatalf("expected fresh tenant still on trial, got %s", tenants.subscriptions[fresh.ID].Status)
	}
}

func TestExpirerService_RunsOnInterval(t *testing.T) {
	memberships := newMockMembershipStore()
	tenants := newMockTenantStore(memberships)
	subs := &mockSubscriptionStore{tenants: tenants}

	expirer := NewExpirerService(subs, testLogger())
	expirer.SetInterval(10 * time.Millisecond)
	expirer.Start()
	time.Sleep(50 * time.Millisecond)
	expirer.Stop()

	if subs.calls == 0 {
		t.Fatal("expected the expirer to have run at least once")
	}
}
