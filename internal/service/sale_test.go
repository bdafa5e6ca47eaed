package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
)

// mockSaleStore emulates the checkout transaction: every stock check
// passes before anything is written, so a failed line leaves no trace.
type mockSaleStore struct {
	stock    map[uuid.UUID]int
	sales    map[uuid.UUID]*domain.Sale
	receipts map[string]int
}

func newMockSaleStore() *mockSaleStore {
	return &mockSaleStore{
		stock:    make(map[uuid.UUID]int),
		sales:    make(map[uuid.UUID]*domain.Sale),
		receipts: make(map[string]int),
	}
}

func (m *mockSaleStore) Create(ctx context.Context, sale *domain.Sale) error {
	needed := make(map[uuid.UUID]int, len(sale.Lines))
	for _, line := range sale.Lines {
		needed[line.ItemID] += line.Quantity
	}
	for itemID, qty := range needed {
		available, ok := m.stock[itemID]
		if !ok {
			return store.ErrNotFound
		}
		if available < qty {
			return &store.InsufficientStockError{
				ItemID:    itemID,
				Requested: qty,
				Available: available,
			}
		}
	}

	day := time.Now().Format("20060102")
	key := sale.TenantID.String() + ":" + day
	m.receipts[key]++
	sale.ReceiptNumber = fmt.Sprintf("RCT-%s-%04d", day, m.receipts[key])

	sale.ID = uuid.New()
	sale.CreatedAt = time.Now()
	for i := range sale.Lines {
		sale.Lines[i].ID = uuid.New()
		sale.Lines[i].SaleID = sale.ID
		m.stock[sale.Lines[i].ItemID] -= sale.Lines[i].Quantity
	}
	m.sales[sale.ID] = sale
	return nil
}

func (m *mockSaleStore) GetByID(ctx context.Context, id, tenantID uuid.UUID) (*domain.Sale, error) {
	sale, ok := m.sales[id]
	if !ok || sale.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return sale, nil
}

type saleFixture struct {
	*policyFixture
	sales     *SaleService
	saleStore *mockSaleStore
	cashierID uuid.UUID
}

func setupSale(t *testing.T) *saleFixture {
	t.Helper()
	pf := setupPolicy(t, domain.CategoryHardware)
	ss := newMockSaleStore()
	return &saleFixture{
		policyFixture: pf,
		sales:         NewSaleService(pf.policy, ss, testLogger()),
		saleStore:     ss,
		cashierID:     pf.addMember(t, domain.RoleCashier, true),
	}
}

func (f *saleFixture) stockItem(qty int) uuid.UUID {
	itemID := uuid.New()
	f.saleStore.stock[itemID] = qty
	return itemID
}

func TestSaleService_Create(t *testing.T) {
	f := setupSale(t)
	nails := f.stockItem(5)
	hammers := f.stockItem(10)

	sale, err := f.sales.Create(context.Background(), f.cashierID, f.tenant.ID, "Wanjiku", []domain.SaleLineRequest{
		{ItemID: nails, Quantity: 3, UnitPrice: 1000},
		{ItemID: hammers, Quantity: 2, UnitPrice: 25000},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if sale.Total != 3*1000+2*25000 {
		t.Fatalf("expected total 53000, got %d", sale.Total)
	}
	if len(sale.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(sale.Lines))
	}
	if sale.Lines[0].LineTotal != 3000 {
		t.Fatalf("expected line total 3000, got %d", sale.Lines[0].LineTotal)
	}
	if f.saleStore.stock[nails] != 2 || f.saleStore.stock[hammers] != 8 {
		t.Fatalf("expected stock decremented to 2 and 8, got %d and %d",
			f.saleStore.stock[nails], f.saleStore.stock[hammers])
	}
	if !strings.HasPrefix(sale.ReceiptNumber, "RCT-") {
		t.Fatalf("unexpected receipt number %q", sale.ReceiptNumber)
	}
}

func TestSaleService_ReceiptNumbersAreSequential(t *testing.T) {
	f := setupSale(t)
	itemID := f.stockItem(100)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		sale, err := f.sales.Create(ctx, f.cashierID, f.tenant.ID, "", []domain.SaleLineRequest{
			{ItemID: itemID, Quantity: 1, UnitPrice: 500},
		})
		if err != nil {
			t.Fatalf("checkout %d failed: %v", i, err)
		}
		if seen[sale.ReceiptNumber] {
			t.Fatalf("duplicate receipt number %q", sale.ReceiptNumber)
		}
		seen[sale.ReceiptNumber] = true
	}

	want := fmt.Sprintf("RCT-%s-0003", time.Now().Format("20060102"))
	if !seen[want] {
		t.Fatalf("expected receipt %q to be issued, got %v", want, seen)
	}
}

func TestSaleService_InsufficientStock(t *testing.T) {
	f := setupSale(t)
	plenty := f.stockItem(10)
	scarce := f.stockItem(2)

	_, err := f.sales.Create(context.Background(), f.cashierID, f.tenant.ID, "", []domain.SaleLineRequest{
		{ItemID: plenty, Quantity: 1, UnitPrice: 100},
		{ItemID: scarce, Quantity: 4, UnitPrice: 100},
	})

	var stockErr *store.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ItemID != scarce || stockErr.Requested != 4 || stockErr.Available != 2 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}

	// Nothing committed: the in-stock line must not have been decremented.
	if f.saleStore.stock[plenty] != 10 {
		t.Fatalf("expected stock untouched at 10, got %d", f.saleStore.stock[plenty])
	}
	if len(f.saleStore.sales) != 0 {
		t.Fatalf("expected no sale rows, got %d", len(f.saleStore.sales))
	}
}

func TestSaleService_DuplicateItemLines(t *testing.T) {
	f := setupSale(t)
	itemID := f.stockItem(5)
	ctx := context.Background()

	// Two lines for the same item must be checked against stock as one
	// combined quantity, not line by line.
	_, err := f.sales.Create(ctx, f.cashierID, f.tenant.ID, "", []domain.SaleLineRequest{
		{ItemID: itemID, Quantity: 3, UnitPrice: 100},
		{ItemID: itemID, Quantity: 3, UnitPrice: 100},
	})

	var stockErr *store.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.ItemID != itemID || stockErr.Requested != 6 || stockErr.Available != 5 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}
	if f.saleStore.stock[itemID] != 5 {
		t.Fatalf("expected stock untouched at 5, got %d", f.saleStore.stock[itemID])
	}
	if len(f.saleStore.sales) != 0 {
		t.Fatalf("expected no sale rows, got %d", len(f.saleStore.sales))
	}

	// Duplicate lines that fit within stock still commit.
	sale, err := f.sales.Create(ctx, f.cashierID, f.tenant.ID, "", []domain.SaleLineRequest{
		{ItemID: itemID, Quantity: 2, UnitPrice: 100},
		{ItemID: itemID, Quantity: 3, UnitPrice: 100},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if sale.Total != 500 || len(sale.Lines) != 2 {
		t.Fatalf("unexpected sale: total=%d lines=%d", sale.Total, len(sale.Lines))
	}
	if f.saleStore.stock[itemID] != 0 {
		t.Fatalf("expected stock fully drawn down to 0, got %d", f.saleStore.stock[itemID])
	}
}

func TestSaleService_UnknownItem(t *testing.T) {
	f := setupSale(t)

	_, err := f.sales.Create(context.Background(), f.cashierID, f.tenant.ID, "", []domain.SaleLineRequest{
		{ItemID: uuid.New(), Quantity: 1, UnitPrice: 100},
	})
	if err != ErrItemNotFound {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestSaleService_Validation(t *testing.T) {
	f := setupSale(t)
	itemID := f.stockItem(5)
	ctx := context.Background()

	cases := []struct {
		name  string
		lines []domain.SaleLineRequest
		want  error
	}{
		{"no lines", nil, ErrNoLines},
		{"zero quantity", []domain.SaleLineRequest{{ItemID: itemID, Quantity: 0, UnitPrice: 100}}, ErrInvalidQuantity},
		{"negative quantity", []domain.SaleLineRequest{{ItemID: itemID, Quantity: -1, UnitPrice: 100}}, ErrInvalidQuantity},
		{"negative price", []domain.SaleLineRequest{{ItemID: itemID, Quantity: 1, UnitPrice: -5}}, ErrInvalidUnitPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.sales.Create(ctx, f.cashierID, f.tenant.ID, "", tc.lines); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSaleService_RequiresCreateSale(t *testing.T) {
	f := setupSale(t)
	itemID := f.stockItem(5)
	accountantID := f.addMember(t, domain.RoleAccountant, true)

	_, err := f.sales.Create(context.Background(), accountantID, f.tenant.ID, "", []domain.SaleLineRequest{
		{ItemID: itemID, Quantity: 1, UnitPrice: 100},
	})
	if err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestSaleService_GetByID(t *testing.T) {
	f := setupSale(t)
	itemID := f.stockItem(5)
	ctx := context.Background()

	created, err := f.sales.Create(ctx, f.cashierID, f.tenant.ID, "Otieno", []domain.SaleLineRequest{
		{ItemID: itemID, Quantity: 2, UnitPrice: 750},
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	got, err := f.sales.GetByID(ctx, f.ownerID, f.tenant.ID, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ReceiptNumber != created.ReceiptNumber || got.Total != 1500 {
		t.Fatalf("unexpected sale: %+v", got)
	}

	if _, err := f.sales.GetByID(ctx, f.ownerID, f.tenant.ID, uuid.New()); err != ErrSaleNotFound {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
	// Cashiers record sales but cannot read reports.
	if _, err := f.sales.GetByID(ctx, f.cashierID, f.tenant.ID, created.ID); err != ErrNotAuthorized {
		t.Fatalf("expected ErrNotAuthorized for cashier, got %v", err)
	}
}
