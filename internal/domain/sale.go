package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sale is a committed point-of-sale checkout. Total always equals the sum
// of its line totals; the receipt number is unique per tenant per day.
type Sale struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	CashierID     uuid.UUID  `json:"cashier_id"`
	ReceiptNumber string     `json:"receipt_number"`
	CustomerName  string     `json:"customer_name,omitempty"`
	Total         int64      `json:"total"`
	Lines         []SaleLine `json:"lines,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type SaleLine struct {
	ID        uuid.UUID `json:"id"`
	SaleID    uuid.UUID `json:"sale_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	LineTotal int64     `json:"line_total"`
}

// SaleLineRequest is one requested line of a checkout, before any stock
// check has happened.
type SaleLineRequest struct {
	ItemID    uuid.UUID `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
}
