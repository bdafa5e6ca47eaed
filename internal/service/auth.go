package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/okellodev/dukani/internal/domain"
	"github.com/okellodev/dukani/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidEmail       = errors.New("a valid email is required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService registers principals and issues session tokens. Core
// services never read ambient identity; the middleware resolves the token
// to a principal id and every call threads it explicitly.
type AuthService struct {
	principalStore domain.PrincipalStore
	secret         []byte
	tokenTTL       time.Duration
	logger         *zap.Logger
}

func NewAuthService(ps domain.PrincipalStore, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		principalStore: ps,
		secret:         []byte(secret),
		tokenTTL:       tokenTTL,
		logger:         logger,
	}
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (*domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrNameRequired
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	p := &domain.Principal{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := s.principalStore.Create(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("principal registered", zap.String("principal_id", p.ID.String()))
	return p, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	p, err := s.principalStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(p.ID)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// IssueToken signs a session token whose subject is the principal id.
func (s *AuthService) IssueToken(principalID uuid.UUID) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a session token and returns the principal id.
func (s *AuthService) ParseToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
