package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
	"go.uber.org/zap"
)

// mockPrincipalStore implements domain.PrincipalStore for testing.
type mockPrincipalStore struct {
	principals map[uuid.UUID]*domain.Principal
}

func newMockPrincipalStore() *mockPrincipalStore {
	return &mockPrincipalStore{principals: make(map[uuid.UUID]*domain.Principal)}
}

func (m *mockPrincipalStore) Create(ctx context.Context, p *domain.Principal) error {
	for _, existing := range m.principals {
		if existing.Email == p.Email {
			return store.ErrDuplicate
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.principals[p.ID] = p
	return nil
}

func (m *mockPrincipalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	p, ok := m.principals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (m *mockPrincipalStore) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	for _, p := range m.principals {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

// mockMembershipStore implements domain.MembershipStore for testing.
type mockMembershipStore struct {
	memberships map[uuid.UUID]*domain.Membership
}

func newMockMembershipStore() *mockMembershipStore {
	return &mockMembershipStore{memberships: make(map[uuid.UUID]*domain.Membership)}
}

func (m *mockMembershipStore) Create(ctx context.Context, mem *domain.Membership) error {
	for _, existing := range m.memberships {
		if existing.TenantID == mem.TenantID && existing.PrincipalID == mem.PrincipalID {
			return store.ErrDuplicate
		}
	}
	mem.ID = uuid.New()
	mem.CreatedAt = time.Now()
	mem.UpdatedAt = mem.CreatedAt
	m.memberships[mem.ID] = mem
	return nil
}

func (m *mockMembershipStore) GetByTenantAndPrincipal(ctx context.Context, tenantID, principalID uuid.UUID) (*domain.Membership, error) {
	for _, mem := range m.memberships {
		if mem.TenantID == tenantID && mem.PrincipalID == principalID {
			return mem, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockMembershipStore) Reactivate(ctx context.Context, id uuid.UUID, role domain.Role, invitedBy uuid.UUID) error {
	mem, ok := m.memberships[id]
	if !ok {
		return store.ErrNotFound
	}
	mem.Role = role
	mem.Active = true
	mem.InvitedBy = &invitedBy
	mem.InvitedAt = time.Now()
	return nil
}

func (m *mockMembershipStore) Deactivate(ctx context.Context, tenantID, principalID uuid.UUID) error {
	for _, mem := range m.memberships {
		if mem.TenantID == tenantID && mem.PrincipalID == principalID && mem.Active {
			mem.Active = false
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockMembershipStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Membership, error) {
	var out []domain.Membership
	for _, mem := range m.memberships {
		if mem.TenantID == tenantID {
			out = append(out, *mem)
		}
	}
	return out, nil
}

func (m *mockMembershipStore) activeCount(tenantID, principalID uuid.UUID) int {
	count := 0
	for _, mem := range m.memberships {
		if mem.TenantID == tenantID && mem.PrincipalID == principalID && mem.Active {
			count++
		}
	}
	return count
}

// mockTenantStore implements domain.TenantStore for testing. It emulates
// the bootstrap transaction by writing the owner membership and trial
// subscription alongside the tenant.
type mockTenantStore struct {
	tenants       map[uuid.UUID]*domain.Tenant
	memberships   *mockMembershipStore
	subscriptions map[uuid.UUID]*domain.Subscription
}

func newMockTenantStore(ms *mockMembershipStore) *mockTenantStore {
	return &mockTenantStore{
		tenants:       make(map[uuid.UUID]*domain.Tenant),
		memberships:   ms,
		subscriptions: make(map[uuid.UUID]*domain.Subscription),
	}
}

func (m *mockTenantStore) Create(ctx context.Context, t *domain.Tenant, trialEndsAt time.Time) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.tenants[t.ID] = t

	if m.memberships != nil {
		_ = m.memberships.Create(ctx, &domain.Membership{
			TenantID:    t.ID,
			PrincipalID: t.OwnerID,
			Role:        domain.RoleOwner,
			Active:      true,
			InvitedAt:   time.Now(),
		})
	}
	m.subscriptions[t.ID] = &domain.Subscription{
		ID:          uuid.New(),
		TenantID:    t.ID,
		Status:      domain.SubscriptionTrial,
		TrialEndsAt: trialEndsAt,
	}
	return nil
}

func (m *mockTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

func testLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// policyFixture is the common setup: one tenant with an owner and a
// membership store shared with the tenant bootstrap.
type policyFixture struct {
	policy      *PolicyService
	tenantStore *mockTenantStore
	memberships *mockMembershipStore
	tenant      *domain.Tenant
	ownerID     uuid.UUID
}

func setupPolicy(t *testing.T, category domain.TenantCategory) *policyFixture {
	t.Helper()

	memberships := newMockMembershipStore()
	tenants := newMockTenantStore(memberships)

	ownerID := uuid.New()
	tenant := &domain.Tenant{OwnerID: ownerID, Name: "Jua Kali Hardware", Category: category}
	if err := tenants.Create(context.Background(), tenant, time.Now().Add(TrialPeriod)); err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}

	return &policyFixture{
		policy:      NewPolicyService(tenants, memberships),
		tenantStore: tenants,
		memberships: memberships,
		tenant:      tenant,
		ownerID:     ownerID,
	}
}

func (f *policyFixture) addMember(t *testing.T, role domain.Role, active bool) uuid.UUID {
	t.Helper()
	principalID := uuid.New()
	err := f.memberships.Create(context.Background(), &domain.Membership{
		TenantID:    f.tenant.ID,
		PrincipalID: principalID,
		Role:        role,
		Active:      active,
		InvitedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
	return principalID
}

func TestPolicyService_OwnerAlwaysAllowed(t *testing.T) {
	f := setupPolicy(t, domain.CategoryHardware)
	ctx := context.Background()

	// Wipe the owner's bootstrap membership: ownership alone must grant
	// every action with no membership row at all.
	f.memberships.memberships = make(map[uuid.UUID]*domain.Membership)

	for _, action := range domain.AllActions {
		if err := f.policy.Authorize(ctx, f.ownerID, f.tenant.ID, action); err != nil {
			t.Fatalf("expected owner to be allowed %s, got %v", action, err)
		}
	}
}

func TestPolicyService_NonMemberDenied(t *testing.T) {
	f := setupPolicy(t, domain.CategoryHardware)

	err := f.policy.Authorize(context.Background(), uuid.New(), f.tenant.ID, domain.ActionReadCatalog)
	if err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestPolicyService_InactiveMemberDenied(t *testing.T) {
	f := setupPolicy(t, domain.CategoryHardware)
	principalID := f.addMember(t, domain.RoleCashier, false)

	err := f.policy.Authorize(context.Background(), principalID, f.tenant.ID, domain.ActionCreateSale)
	if err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for inactive member, got %v", err)
	}
}

func TestPolicyService_RoleTableEnforced(t *testing.T) {
	f := setupPolicy(t, domain.CategorySupermarket)
	cashierID := f.addMember(t, domain.RoleCashier, true)
	ctx := context.Background()

	if err := f.policy.Authorize(ctx, cashierID, f.tenant.ID, domain.ActionCreateSale); err != nil {
		t.Fatalf("expected cashier to record sales, got %v", err)
	}
	if err := f.policy.Authorize(ctx, cashierID, f.tenant.ID, domain.ActionManageStaff); err != ErrNotAuthorized {
		t.Fatalf("expected cashier to be denied staff management, got %v", err)
	}
}

func TestPolicyService_UnknownTenantDeniedNotLeaked(t *testing.T) {
	f := setupPolicy(t, domain.CategoryHardware)

	// A missing tenant and a denied action are indistinguishable.
	err := f.policy.Authorize(context.Background(), f.ownerID, uuid.New(), domain.ActionViewDashboard)
	if err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for unknown tenant, got %v", err)
	}
}

func TestPolicyService_ResolveMembership(t *testing.T) {
	f := setupPolicy(t, domain.CategoryHotel)
	frontDeskID := f.addMember(t, domain.RoleFrontDesk, true)
	inactiveID := f.addMember(t, domain.RoleHousekeeper, false)
	ctx := context.Background()

	m, err := f.policy.ResolveMembership(ctx, frontDeskID, f.tenant.ID)
	if err != nil {
		t.Fatalf("expected membership, got %v", err)
	}
	if m.Role != domain.RoleFrontDesk || !m.Active {
		t.Fatalf("unexpected membership: %+v", m)
	}

	if _, err := f.policy.ResolveMembership(ctx, inactiveID, f.tenant.ID); err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for inactive membership, got %v", err)
	}
	if _, err := f.policy.ResolveMembership(ctx, uuid.New(), f.tenant.ID); err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for missing membership, got %v", err)
	}
}
