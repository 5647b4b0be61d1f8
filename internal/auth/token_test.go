package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/store"
)

var producer = store.Account{ID: "farmer1", Email: "farmer@test.com", Role: store.RoleProducer}

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	token, err := iss.Issue(producer)
	require.NoError(t, err)

	claims, err := iss.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "farmer1", claims.AccountID)
	assert.Equal(t, store.RoleProducer, claims.Role)
	assert.Equal(t, "farmer@test.com", claims.Subject)
}

func TestIssuer_Validate(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	good, err := iss.Issue(producer)
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := iss.Validate("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := iss.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		_, err := NewIssuer("other", time.Hour).Validate(good)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer("secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Validate(good)
		assert.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("unknown role", func(t *testing.T) {
		bad, err := iss.Issue(store.Account{ID: "x", Role: "admin"})
		require.NoError(t, err)
		_, err = iss.Validate(bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssuer_Revoke(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)
	first, err := iss.Issue(producer)
	require.NoError(t, err)
	second, err := iss.Issue(producer)
	require.NoError(t, err)

	claims, err := iss.Validate(first)
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	iss.Revoke(claims)
	iss.Revoke(nil)

	_, err = iss.Validate(first)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrRevokedToken)

	_, err = iss.Validate(second)
	assert.NoError(t, err, "other sessions of the same account stay valid")
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Equal(t, "", BearerToken("Basic abc"))
	assert.Equal(t, "", BearerToken(""))
}

func TestClaimsContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &Claims{AccountID: "trucker1"})
	c, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "trucker1", c.AccountID)
}
