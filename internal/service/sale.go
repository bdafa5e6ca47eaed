package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
	"go.uber.org/zap"
)

var (
	ErrNoLines          = errors.New("at least one sale line is required")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidUnitPrice = errors.New("unit price must not be negative")
	ErrItemNotFound     = errors.New("catalog item not found")
	ErrSaleNotFound     = errors.New("sale not found")
)

// SaleService runs the point-of-sale checkout.
type SaleService struct {
	policy    *PolicyService
	saleStore domain.SaleStore
	logger    *zap.Logger
}

func NewSaleService(policy *PolicyService, ss domain.SaleStore, logger *zap.Logger) *SaleService {
	return &SaleService{policy: policy, saleStore: ss, logger: logger}
}

// Create validates and authorizes the checkout, then hands the whole
// multi-table write to the store as one transaction. On insufficient stock
// the returned error is a *store.InsufficientStockError naming the item;
// nothing is committed.
func (s *SaleService) Create(ctx context.Context, cashierID, tenantID uuid.UUID, customerName string, lines []domain.SaleLineRequest) (*domain.Sale, error) {
	if err := s.policy.Authorize(ctx, cashierID, tenantID, domain.ActionCreateSale); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	sale := &domain.Sale{
		TenantID:     tenantID,
		CashierID:    cashierID,
		CustomerName: customerName,
	}
	for _, req := range lines {
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if req.UnitPrice < 0 {
			return nil, ErrInvalidUnitPrice
		}
		lineTotal := int64(req.Quantity) * req.UnitPrice
		sale.Lines = append(sale.Lines, domain.SaleLine{
			ItemID:    req.ItemID,
			Quantity:  req.Quantity,
			UnitPrice: req.UnitPrice,
			LineTotal: lineTotal,
		})
		sale.Total += lineTotal
	}

	if err := s.saleStore.Create(ctx, sale); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	s.logger.Info("sale recorded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("receipt", sale.ReceiptNumber),
		zap.Int64("total", sale.Total),
		zap.Int("lines", len(sale.Lines)))
	return sale, nil
}

func (s *SaleService) GetByID(ctx context.Context, callerID, tenantID, saleID uuid.UUID) (*domain.Sale, error) {
	if err := s.policy.Authorize(ctx, callerID, tenantID, domain.ActionReadReports); err != nil {
		return nil, err
	}
	sale, err := s.saleStore.GetByID(ctx, saleID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}
