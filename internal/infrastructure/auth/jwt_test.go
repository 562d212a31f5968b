package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	}, time.Hour)
}

func TestNewJWTService(t *testing.T) {
	svc := newTestJWTService()
	assert.Equal(t, []byte("test-secret-key-at-least-32-chars"), svc.secret)
	assert.Equal(t, "test-issuer", svc.audience, "audience defaults to issuer")
	assert.Equal(t, time.Hour, svc.TTL())
}

func TestNewJWTService_GeneratesSecretWhenEmpty(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Issuer: "x"}, time.Minute)
	assert.GreaterOrEqual(t, len(svc.secret), 32)
}

func TestJWTService_IssueAndParse(t *testing.T) {
	svc := newTestJWTService()

	issued, err := svc.Issue("sid-123", false)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", issued.SessionID)
	assert.NotEmpty(t, issued.Value)

	claims, err := svc.Parse(issued.Value)
	require.NoError(t, err)
	assert.Equal(t, "sid-123", claims.SessionID())
	assert.False(t, claims.Guest)
	assert.InDelta(t, time.Hour.Seconds(), claims.Remaining(time.Now()).Seconds(), 5)
}

func TestJWTService_IssueAllocatesSessionID(t *testing.T) {
	svc := newTestJWTService()

	a, err := svc.Issue("", true)
	require.NoError(t, err)
	b, err := svc.Issue("", true)
	require.NoError(t, err)

	assert.NotEmpty(t, a.SessionID)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestJWTService_ParseRejects(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret-that-is-long-enough", Issuer: "test-issuer"}, time.Hour)
		issued, err := other.Issue("sid", false)
		require.NoError(t, err)

		_, err = svc.Parse(issued.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "someone-else"}, time.Hour)
		issued, err := other.Issue("sid", false)
		require.NoError(t, err)

		_, err = svc.Parse(issued.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := newTestJWTService()
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		issued, err := past.Issue("sid", false)
		require.NoError(t, err)

		_, err = svc.Parse(issued.Value)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{
			RegisteredClaims: jwt.RegisteredClaims{ID: "sid", Issuer: "test-issuer"},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSessionClaims_Remaining(t *testing.T) {
	now := time.Now()
	c := &SessionClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}}
	assert.Zero(t, c.Remaining(now))
	assert.Zero(t, (&SessionClaims{}).Remaining(now))
}
