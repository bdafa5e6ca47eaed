package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrItemNameRequired = errors.New("item name is required")
	ErrInvalidPrice     = errors.New("prices must not be negative")
	ErrInvalidStock     = errors.New("stock quantity must not be negative")
)

// CatalogService manages a tenant's sellable products.
type CatalogService struct {
	policy       *PolicyService
	catalogStore domain.CatalogStore
	logger       *zap.Logger
}

func NewCatalogService(policy *PolicyService, cs domain.CatalogStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{policy: policy, catalogStore: cs, logger: logger}
}

func (s *CatalogService) Create(ctx context.Context, callerID, tenantID uuid.UUID, name, sku string, costPrice, salePrice int64, stock int) (*domain.CatalogItem, error) {
	if err := s.policy.Authorize(ctx, callerID, tenantID, domain.ActionManageCatalog); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrItemNameRequired
	}
	if costPrice < 0 || salePrice < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	item := &domain.CatalogItem{
		TenantID:      tenantID,
		Name:          name,
		SKU:           sku,
		CostPrice:     costPrice,
		SalePrice:     salePrice,
		StockQuantity: stock,
		Active:        true,
	}
	if err := s.catalogStore.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("catalog item created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("item_id", item.ID.String()))
	return item, nil
}

func (s *CatalogService) List(ctx context.Context, callerID, tenantID uuid.UUID) ([]domain.CatalogItem, error) {
	if err := s.policy.Authorize(ctx, callerID, tenantID, domain.ActionReadCatalog); err != nil {
		return nil, err
	}
	return s.catalogStore.ListByTenant(ctx, tenantID)
}
