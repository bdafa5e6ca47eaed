package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type SaleStore struct {
	db *pgxpool.Pool
}

func NewSaleStore(db *pgxpool.Pool) *SaleStore {
	return &SaleStore{db: db}
}

// Create runs the whole checkout in one transaction: lock every catalog
// item, verify stock, mint the receipt number, insert the sale and its
// lines, decrement stock. Any failure rolls back all of it, so a sale can
// never exist without its lines or its stock decrements.
func (s *SaleStore) Create(ctx context.Context, sale *domain.Sale) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Aggregate quantities per item so duplicate lines for the same item
	// are checked against stock as one combined total.
	needed := make(map[uuid.UUID]int, len(sale.Lines))
	for _, line := range sale.Lines {
		needed[line.ItemID] += line.Quantity
	}
	itemIDs := make([]uuid.UUID, 0, len(needed))
	for id := range needed {
		itemIDs = append(itemIDs, id)
	}

	// Lock items in a stable order so two concurrent checkouts touching
	// the same items cannot deadlock.
	sort.Slice(itemIDs, func(i, j int) bool {
		return itemIDs[i].String() < itemIDs[j].String()
	})

	for _, itemID := range itemIDs {
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT stock_quantity FROM catalog_items
			 WHERE id = $1 AND tenant_id = $2
			 FOR UPDATE`,
			itemID, sale.TenantID,
		).Scan(&stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if stock < needed[itemID] {
			return &InsufficientStockError{
				ItemID:    itemID,
				Requested: needed[itemID],
				Available: stock,
			}
		}
	}

	receipt, err := nextReceiptNumber(ctx, tx, sale.TenantID, time.Now())
	if err != nil {
		return err
	}
	sale.ReceiptNumber = receipt

	err = tx.QueryRow(ctx,
		`INSERT INTO sales (tenant_id, cashier_id, receipt_number, customer_name, total)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		sale.TenantID, sale.CashierID, sale.ReceiptNumber, sale.CustomerName, sale.Total,
	).Scan(&sale.ID, &sale.CreatedAt)
	if err != nil {
		return err
	}

	for i := range sale.Lines {
		line := &sale.Lines[i]
		line.SaleID = sale.ID
		err = tx.QueryRow(ctx,
			`INSERT INTO sale_lines (sale_id, item_id, quantity, unit_price, line_total)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			line.SaleID, line.ItemID, line.Quantity, line.UnitPrice, line.LineTotal,
		).Scan(&line.ID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE catalog_items
			 SET stock_quantity = stock_quantity - $3, updated_at = NOW()
			 WHERE id = $1 AND tenant_id = $2`,
			line.ItemID, sale.TenantID, line.Quantity,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// nextReceiptNumber bumps the tenant's per-day sequence inside the checkout
// transaction and formats a date-prefixed receipt identifier. The upsert
// serializes concurrent checkouts on the sequence row, so two sales on the
// same day can never mint the same number.
func nextReceiptNumber(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, now time.Time) (string, error) {
	day := now.Format("2006-01-02")
	var n int64
	err := tx.QueryRow(ctx,
		`INSERT INTO receipt_sequences (tenant_id, day, last_value)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (tenant_id, day)
		 DO UPDATE SET last_value = receipt_sequences.last_value + 1
		 RETURNING last_value`,
		tenantID, day,
	).Scan(&n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("RCT-%s-%04d", now.Format("20060102"), n), nil
}

func (s *SaleStore) GetByID(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*domain.Sale, error) {
	sale := &domain.Sale{}
	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, cashier_id, receipt_number, customer_name, total, created_at
		 FROM sales WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&sale.ID, &sale.TenantID, &sale.CashierID, &sale.ReceiptNumber, &sale.CustomerName, &sale.Total, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, sale_id, item_id, quantity, unit_price, line_total
		 FROM sale_lines WHERE sale_id = $1`,
		sale.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.SaleLine
		if err := rows.Scan(&line.ID, &line.SaleID, &line.ItemID, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, err
		}
		sale.Lines = append(sale.Lines, line)
	}
	return sale, rows.Err()
}
