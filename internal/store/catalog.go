package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type CatalogStore struct {
	db *pgxpool.Pool
}

func NewCatalogStore(db *pgxpool.Pool) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) Create(ctx context.Context, item *domain.CatalogItem) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO catalog_items (tenant_id, name, sku, cost_price, sale_price, stock_quantity, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		item.TenantID, item.Name, item.SKU, item.CostPrice, item.SalePrice, item.StockQuantity, item.Active,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (s *CatalogStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.CatalogItem, error) {
	item := &domain.CatalogItem{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, sku, cost_price, sale_price, stock_quantity, active, created_at, updated_at
		 FROM catalog_items WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&item.ID, &item.TenantID, &item.Name, &item.SKU, &item.CostPrice, &item.SalePrice,
		&item.StockQuantity, &item.Active, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *CatalogStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.CatalogItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, tenant_id, name, sku, cost_price, sale_price, stock_quantity, active, created_at, updated_at
		 FROM catalog_items WHERE tenant_id = $1
		 ORDER BY name`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CatalogItem
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.TenantID, &item.Name, &item.SKU, &item.CostPrice, &item.SalePrice,
			&item.StockQuantity, &item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
