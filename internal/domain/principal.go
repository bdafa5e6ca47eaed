package domain

import (
	"time"

	"github.com/google/uuid"
)

// Principal is an authenticated user identity, independent of any tenant.
type Principal struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
