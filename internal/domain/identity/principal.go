package identity

import (
	"context"
	"errors"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// PrincipalKind tags a resolved principal
type PrincipalKind int

const (
	KindGuest PrincipalKind = iota
	KindAuthenticated
)

// Principal is resolved once per request and handed down explicitly
type Principal struct {
	Kind      PrincipalKind
	SessionID string
	Session   *Session
}

// Guest returns the unauthenticated principal bound to a browsing session id (may be empty)
func Guest(sessionID string) Principal {
	return Principal{Kind: KindGuest, SessionID: sessionID}
}

// Authenticated returns a principal carrying a loaded session record
func Authenticated(sessionID string, s *Session) Principal {
	return Principal{Kind: KindAuthenticated, SessionID: sessionID, Session: s}
}

// IsGuest reports whether no session record backs this principal
func (p Principal) IsGuest() bool {
	return p.Kind == KindGuest || p.Session == nil
}

// Role returns the derived role
func (p Principal) Role() Role {
	if p.IsGuest() {
		return RoleGuest
	}
	return p.Session.Role()
}

// AccessToken returns the bearer token for backend calls, or ""
func (p Principal) AccessToken() string {
	if p.IsGuest() {
		return ""
	}
	return p.Session.AccessToken
}

// RequireRole checks the session against a policy and fails closed
func RequireRole(s *Session, policy Policy) error {
	if s == nil || s.Role() == RoleGuest {
		return shared.ErrNotAuthenticated
	}
	if !policy.Allows(s) {
		return shared.NewDomainError(shared.CodeUnauthorized, "Your role does not permit this action")
	}
	return nil
}

// ErrSessionNotFound is returned by stores when no record exists under a key
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists raw session blobs scoped to one browsing session
type SessionStore interface {
	// Load returns the stored blob, or ErrSessionNotFound
	Load(ctx context.Context, sessionID string) ([]byte, error)
	// Save stores the blob, replacing any previous one, expiring after ttl
	Save(ctx context.Context, sessionID string, blob []byte, ttl time.Duration) error
	// Touch extends the expiry of an existing record
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
	// Delete removes the record; deleting a missing record is not an error
	Delete(ctx context.Context, sessionID string) error
}
