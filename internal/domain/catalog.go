package domain

import (
	"time"

	"github.com/google/uuid"
)

// CatalogItem is a sellable product. Prices are in minor currency units.
// StockQuantity never goes negative; the sale checkout transaction
// enforces that under row locks.
type CatalogItem struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku,omitempty"`
	CostPrice     int64     `json:"cost_price"`
	SalePrice     int64     `json:"sale_price"`
	StockQuantity int       `json:"stock_quantity"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
