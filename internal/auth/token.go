package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

const issuer = "agrimove"

var (
	ErrMissingToken = errors.New("authorization token is missing")
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrRevokedToken = errors.New("token has been revoked")
)

// Claims is what a session token carries about its holder.
type Claims struct {
	AccountID string     `json:"account_id"`
	Role      store.Role `json:"role"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoked *cache.Revocations
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: cache.NewRevocations(),
	}
}

// Issue signs an HS256 token for the account.
func (i *Issuer) Issue(account store.Account) (string, error) {
	now := i.now()
	claims := &Claims{
		AccountID: account.ID,
		Role:      account.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   account.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature, expiry, issuer and role of a token.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	if i.revoked.IsRevoked(claims.ID) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, ErrRevokedToken)
	}
	return claims, nil
}

// Revoke rejects the token carrying claims from now until it expires.
func (i *Issuer) Revoke(claims *Claims) {
	if claims == nil {
		return
	}
	until := i.now().Add(i.ttl)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	i.revoked.Revoke(claims.ID, until)
}

// BearerToken strips the "Bearer " scheme from an Authorization value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

type contextKey struct{}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKey{}).(*Claims)
	return c, ok
}
