package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okellodev/dukani/internal/domain"
)

type PrincipalStore struct {
	db *pgxpool.Pool
}

func NewPrincipalStore(db *pgxpool.Pool) *PrincipalStore {
	return &PrincipalStore{db: db}
}

func (s *PrincipalStore) Create(ctx context.Context, p *domain.Principal) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO principals (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.Email, p.Name, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *PrincipalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	p := &domain.Principal{}
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM principals WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PrincipalStore) GetByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	p := &domain.Principal{}
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM principals WHERE email = $1`,
		email,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
