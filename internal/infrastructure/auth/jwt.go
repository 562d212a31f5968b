package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSessionID = errors.New("missing session id in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// SessionClaims is the payload of the session cookie. The JWT ID is the
// session id under which the session record is stored.
type SessionClaims struct {
	jwt.RegisteredClaims
	Guest bool `json:"guest,omitempty"`
}

// SessionID returns the id of the referenced session record
func (c *SessionClaims) SessionID() string {
	return c.ID
}

// Remaining returns how long the token stays valid
func (c *SessionClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}

// IssuedToken is a signed cookie value plus its metadata
type IssuedToken struct {
	Value     string
	SessionID string
	ExpiresAt time.Time
}

// JWTService signs and validates session cookies
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTService creates a session cookie signer
func NewJWTService(cfg config.JWTConfig, ttl time.Duration) *JWTService {
	secret := cfg.Secret
	if secret == "" {
		// development only; production config validation requires a secret
		secret = uuid.NewString() + uuid.NewString()
	}
	audience := cfg.Audience
	if audience == "" {
		audience = cfg.Issuer
	}
	return &JWTService{
		secret:   []byte(secret),
		issuer:   cfg.Issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// NewSessionID returns a fresh random session id
func NewSessionID() string {
	return uuid.NewString()
}

// Issue signs a cookie for sessionID. An empty sessionID allocates a new one.
func (s *JWTService) Issue(sessionID string, guest bool) (*IssuedToken, error) {
	if sessionID == "" {
		sessionID = NewSessionID()
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Guest: guest,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Value: signed, SessionID: sessionID, ExpiresAt: expiresAt}, nil
}

// Parse validates a cookie value and returns its claims
func (s *JWTService) Parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.ID == "" {
		return nil, ErrMissingSessionID
	}
	return claims, nil
}
