package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PrincipalStore interface {
	Create(ctx context.Context, p *Principal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Principal, error)
	GetByEmail(ctx context.Context, email string) (*Principal, error)
}

type TenantStore interface {
	// Create inserts the tenant together with the owner's membership row
	// and a trial subscription, in one transaction.
	Create(ctx context.Context, t *Tenant, trialEndsAt time.Time) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

type SubscriptionStore interface {
	GetByTenant(ctx context.Context, tenantID uuid.UUID) (*Subscription, error)
	// ExpireLapsed marks trial subscriptions past their trial end and
	// active ones past their period end as expired. Returns rows changed.
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type MembershipStore interface {
	Create(ctx context.Context, m *Membership) error
	// GetByTenantAndPrincipal returns the membership row regardless of its
	// active flag; callers decide how inactive rows are treated.
	GetByTenantAndPrincipal(ctx context.Context, tenantID, principalID uuid.UUID) (*Membership, error)
	Reactivate(ctx context.Context, id uuid.UUID, role Role, invitedBy uuid.UUID) error
	Deactivate(ctx context.Context, tenantID, principalID uuid.UUID) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Membership, error)
}

type CatalogStore interface {
	Create(ctx context.Context, item *CatalogItem) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*CatalogItem, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]CatalogItem, error)
}

type SaleStore interface {
	// Create persists the sale, its lines, the receipt-sequence bump and
	// the stock decrements atomically. The caller supplies lines with
	// quantities, unit prices and line totals plus the sale total; the
	// store assigns IDs, the receipt number and timestamps. Insufficient
	// stock on any line aborts with *store.InsufficientStockError.
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Sale, error)
}

type BookingStore interface {
	CreateUnit(ctx context.Context, u *ResourceUnit) error
	GetUnit(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*ResourceUnit, error)
	ListUnits(ctx context.Context, tenantID uuid.UUID) ([]ResourceUnit, error)
	// CreateReservation inserts the reservation and, when a unit is
	// attached, transitions the unit to occupied in the same transaction.
	// Overlapping confirmed stays on the unit abort with ErrUnitUnavailable.
	CreateReservation(ctx context.Context, r *Reservation) error
}

type BillingStore interface {
	CreateLessee(ctx context.Context, l *Lessee) error
	GetLessee(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Lessee, error)
	CreateStudent(ctx context.Context, s *Student) error
	GetStudent(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*Student, error)
	CreateRentPayment(ctx context.Context, p *RentPayment) error
	CreateFeePayment(ctx context.Context, p *FeePayment) error
}

// RevenuePoint is one (amount, timestamp) pair in a tenant's revenue
// series, in natural storage order. Callers sort as needed.
type RevenuePoint struct {
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

type DashboardStats struct {
	RevenueSeries []RevenuePoint `json:"revenue_series"`
	CustomerCount int            `json:"customer_count"`
}

type StatsStore interface {
	RevenueSeries(ctx context.Context, tenantID uuid.UUID, category TenantCategory) ([]RevenuePoint, error)
	CustomerCount(ctx context.Context, tenantID uuid.UUID, category TenantCategory) (int, error)
}
