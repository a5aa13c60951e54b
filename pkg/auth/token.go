package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"savingsbank/internal/domain"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewTokenService(secretKey string, ttl time.Duration, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *TokenService) Issue(principal domain.Principal) (string, error) {
	issuedAt := s.now()
	claims := Claims{
		UserID: principal.UserID,
		Role:   string(principal.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   principal.UserID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(s.ttl).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func (s *TokenService) Verify(tokenStr string) (domain.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		s.logger.Warn("Token verification failed", slog.Any("error", err))
		return domain.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return domain.Principal{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return domain.Principal{UserID: claims.UserID, Role: domain.UserRole(claims.Role)}, nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(domain.Principal)
	return principal, ok
}

// ContextIdentity reads the principal stored by the authentication
// middleware.
type ContextIdentity struct{}

func (ContextIdentity) Principal(ctx context.Context) (domain.Principal, error) {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return domain.Principal{}, ErrUnauthenticated
	}
	return principal, nil
}
