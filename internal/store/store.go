package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to a
	// different tenant.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned on unique-constraint violations.
	ErrDuplicate = errors.New("duplicate")
	// ErrUnitUnavailable is returned when a reservation would overlap a
	// confirmed stay on the same resource unit.
	ErrUnitUnavailable = errors.New("resource unit unavailable for the requested dates")
)

// InsufficientStockError aborts a sale checkout when a catalog item cannot
// cover a requested line quantity.
type InsufficientStockError struct {
	ItemID    uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %s: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
