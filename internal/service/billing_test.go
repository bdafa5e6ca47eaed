package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
)

type mockBillingStore struct {
	lessees      map[uuid.UUID]*domain.Lessee
	students     map[uuid.UUID]*domain.Student
	rentPayments []*domain.RentPayment
	feePayments  []*domain.FeePayment
}

func newMockBillingStore() *mockBillingStore {
	return &mockBillingStore{
		lessees:  make(map[uuid.UUID]*domain.Lessee),
		students: make(map[uuid.UUID]*domain.Student),
	}
}

func (m *mockBillingStore) CreateLessee(ctx context.Context, l *domain.Lessee) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	m.lessees[l.ID] = l
	return nil
}

func (m *mockBillingStore) GetLessee(ctx context.Context, id, tenantID uuid.UUID) (*domain.Lessee, error) {
	l, ok := m.lessees[id]
	if !ok || l.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return l, nil
}

func (m *mockBillingStore) CreateStudent(ctx context.Context, s *domain.Student) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	m.students[s.ID] = s
	return nil
}

func (m *mockBillingStore) GetStudent(ctx context.Context, id, tenantID uuid.UUID) (*domain.Student, error) {
	s, ok := m.students[id]
	if !ok || s.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (m *mockBillingStore) CreateRentPayment(ctx context.Context, p *domain.RentPayment) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.rentPayments = append(m.rentPayments, p)
	return nil
}

func (m *mockBillingStore) CreateFeePayment(ctx context.Context, p *domain.FeePayment) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	m.feePayments = append(m.feePayments, p)
	return nil
}

func setupBilling(t *testing.T, category domain.TenantCategory) (*policyFixture, *BillingService, *mockBillingStore) {
	t.Helper()
	pf := setupPolicy(t, category)
	bs := newMockBillingStore()
	return pf, NewBillingService(pf.policy, bs, testLogger()), bs
}

func TestBillingService_RecordRentPayment(t *testing.T) {
	f, billing, _ := setupBilling(t, domain.CategoryRentals)
	ctx := context.Background()

	lessee, err := billing.CreateLessee(ctx, f.ownerID, f.tenant.ID, "Juma Hassan", "+254711000000", "A4")
	if err != nil {
		t.Fatalf("create lessee failed: %v", err)
	}

	p, err := billing.RecordRentPayment(ctx, f.ownerID, f.tenant.ID, lessee.ID, 1500000, "", "2026-09")
	if err != nil {
		t.Fatalf("record rent payment failed: %v", err)
	}
	// Omitted status defaults to paid with a timestamp.
	if p.Status != domain.PaymentPaid {
		t.Fatalf("expected status paid, got %s", p.Status)
	}
	if p.PaidAt == nil {
		t.Fatal("expected paid_at to be set")
	}
}

func TestBillingService_RecordRentPaymentPending(t *testing.T) {
	f, billing, _ := setupBilling(t, domain.CategoryRentals)
	ctx := context.Background()

	lessee, err := billing.CreateLessee(ctx, f.ownerID, f.tenant.ID, "Juma Hassan", "", "A4")
	if err != nil {
		t.Fatalf("create lessee failed: %v", err)
	}

	p, err := billing.RecordRentPayment(ctx, f.ownerID, f.tenant.ID, lessee.ID, 1500000, domain.PaymentPending, "2026-10")
	if err != nil {
		t.Fatalf("record pending payment failed: %v", err)
	}
	if p.Status != domain.PaymentPending || p.PaidAt != nil {
		t.Fatalf("expected pending payment without paid_at, got %+v", p)
	}
}

func TestBillingService_RecordFeePayment(t *testing.T) {
	f, billing, _ := setupBilling(t, domain.CategorySchool)
	accountantID := f.addMember(t, domain.RoleAccountant, true)
	ctx := context.Background()

	student, err := billing.CreateStudent(ctx, f.ownerID, f.tenant.ID, "Neema Baraka", "+254722000000", "Grade 4")
	if err != nil {
		t.Fatalf("create student failed: %v", err)
	}

	p, err := billing.RecordFeePayment(ctx, accountantID, f.tenant.ID, student.ID, 2500000, domain.PaymentPaid, "Term 3")
	if err != nil {
		t.Fatalf("record fee payment failed: %v", err)
	}
	if p.StudentID != student.ID || p.Amount != 2500000 {
		t.Fatalf("unexpected payment: %+v", p)
	}
}

func TestBillingService_WrongCategory(t *testing.T) {
	f, billing, _ := setupBilling(t, domain.CategoryHardware)
	ctx := context.Background()

	if _, err := billing.CreateLessee(ctx, f.ownerID, f.tenant.ID, "Juma", "", "A1"); err != ErrWrongCategory {
		t.Fatalf("expected ErrWrongCategory for lessee on hardware tenant, got %v", err)
	}
	if _, err := billing.CreateStudent(ctx, f.ownerID, f.tenant.ID, "Neema", "", "G1"); err != ErrWrongCategory {
		t.Fatalf("expected ErrWrongCategory for student on hardware tenant, got %v", err)
	}
	if _, err := billing.RecordRentPayment(ctx, f.ownerID, f.tenant.ID, uuid.New(), 100, "", ""); err != ErrWrongCategory {
		t.Fatalf("expected ErrWrongCategory for rent payment on hardware tenant, got %v", err)
	}
}

func TestBillingService_PaymentValidation(t *testing.T) {
	f, billing, _ := setupBilling(t, domain.CategoryRentals)
	ctx := context.Background()

	lessee, err := billing.CreateLessee(ctx, f.ownerID, f.tenant.ID, "Juma", "", "A1")
	if err != nil {
		t.Fatalf("create lessee failed: %v", err)
	}

	if _, err := billing.RecordRentPayment(ctx, f.ownerID, f.tenant.ID, lessee.ID, 0, "", ""); err != ErrInvalidPaymentAmount {
		t.Fatalf("expected ErrInvalidPaymentAmount, got %v", err)
	}
	if _, err := billing.RecordRentPayment(ctx, f.ownerID, f.tenant.ID, lessee.ID, 100, domain.PaymentStatus("refunded"), ""); err != ErrInvalidPaymentStatus {
		t.Fatalf("expected ErrInvalidPaymentStatus, got %v", err)
	}
	if _, err := billing.RecordRentPayment(ctx, f.ownerID, f.tenant.ID, uuid.New(), 100, "", ""); err != ErrLesseeNotFound {
		t.Fatalf("expected ErrLesseeNotFound, got %v", err)
	}
}

func TestBillingService_CashierCannotRecordPayments(t *testing.T) {
	f, billing, _ := setupBilling(t, domain.CategoryRentals)
	cashierID := f.addMember(t, domain.RoleCashier, true)

	_, err := billing.RecordRentPayment(context.Background(), cashierID, f.tenant.ID, uuid.New(), 100, "", "")
	if err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}
