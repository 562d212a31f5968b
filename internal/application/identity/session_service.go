package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Authenticator exchanges credentials with the backend
type Authenticator interface {
	SignIn(ctx context.Context, userName, password string) (*identity.Session, error)
}

// CartMerger moves a guest cart into a customer cart
type CartMerger interface {
	Merge(ctx context.Context, from, to shopping.OwnerKey) (int, error)
}

// SignInRecorder counts sign-in outcomes
type SignInRecorder interface {
	RecordSignIn(ctx context.Context, ok bool)
}

// SessionService owns the session record: sign-in, loading, principal
// resolution, role checks and logout
type SessionService struct {
	backend   Authenticator
	store     identity.SessionStore
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	merger    CartMerger
	metrics   SignInRecorder
	logger    *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	backend Authenticator,
	store identity.SessionStore,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		backend:   backend,
		store:     store,
		jwt:       jwtService,
		blacklist: blacklist,
		logger:    logger,
	}
}

// SetCartMerger enables moving guest carts on customer sign-in
func (s *SessionService) SetCartMerger(m CartMerger) {
	s.merger = m
}

// SetMetrics enables sign-in counters
func (s *SessionService) SetMetrics(r SignInRecorder) {
	s.metrics = r
}

// SignIn authenticates against the backend and persists the returned record
// verbatim under a fresh session id
func (s *SessionService) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	userName := strings.TrimSpace(input.UserName)
	if userName == "" || input.Password == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "username and password are required")
	}

	session, err := s.backend.SignIn(ctx, userName, input.Password)
	if err == nil {
		err = session.Validate()
	}
	s.recordSignIn(ctx, err == nil)
	if err != nil {
		s.logger.Warn("Sign-in failed", zap.String("username", userName), zap.String("code", shared.CodeOf(err)))
		return nil, err
	}

	blob, err := identity.EncodeSession(session)
	if err != nil {
		return nil, err
	}
	token, err := s.jwt.Issue("", false)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session cookie: %w", err)
	}
	if err := s.store.Save(ctx, token.SessionID, blob, s.jwt.TTL()); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	result := &SignInResult{
		Session:     session,
		SessionID:   token.SessionID,
		CookieValue: token.Value,
		ExpiresAt:   token.ExpiresAt,
	}

	if customerID, ok := session.CustomerID(); ok && input.GuestSessionID != "" && s.merger != nil {
		moved, err := s.merger.Merge(ctx, shopping.GuestOwner(input.GuestSessionID), shopping.CustomerOwner(customerID))
		if err != nil {
			// the sign-in itself succeeded; the guest cart stays where it was
			s.logger.Warn("Guest cart merge failed", zap.Int64("customer_id", customerID), zap.Error(err))
		}
		result.MergedItems = moved
	}

	s.logger.Info("Signed in",
		zap.String("username", userName),
		zap.String("role", string(session.Role())),
	)
	return result, nil
}

// IssueGuest allocates an anonymous browsing session so a guest cart has an owner
func (s *SessionService) IssueGuest() (*GuestCookie, error) {
	token, err := s.jwt.Issue("", true)
	if err != nil {
		return nil, fmt.Errorf("failed to issue guest cookie: %w", err)
	}
	return &GuestCookie{SessionID: token.SessionID, CookieValue: token.Value, ExpiresAt: token.ExpiresAt}, nil
}

// Authenticate validates a cookie value and returns its claims.
// Revoked cookies fail like invalid ones.
func (s *SessionService) Authenticate(ctx context.Context, cookieValue string) (*auth.SessionClaims, error) {
	if cookieValue == "" {
		return nil, shared.ErrNotAuthenticated
	}
	claims, err := s.jwt.Parse(cookieValue)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeNotAuthenticated, "Session cookie is invalid", err)
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// fail closed
			return nil, fmt.Errorf("failed to check session revocation: %w", err)
		}
		if revoked {
			return nil, shared.WrapDomainError(shared.CodeNotAuthenticated, "Session has ended", auth.ErrTokenRevoked)
		}
	}
	return claims, nil
}

// Load reads the session record for sid and slides its expiry.
// Absent or malformed records fail with NOT_AUTHENTICATED.
func (s *SessionService) Load(ctx context.Context, sid string) (*identity.Session, error) {
	if sid == "" {
		return nil, shared.ErrNotAuthenticated
	}
	raw, err := s.store.Load(ctx, sid)
	if err != nil {
		if errors.Is(err, identity.ErrSessionNotFound) {
			return nil, shared.ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	session, err := identity.DecodeSession(raw)
	if err != nil {
		return nil, err
	}
	if err := s.store.Touch(ctx, sid, s.jwt.TTL()); err != nil && !errors.Is(err, identity.ErrSessionNotFound) {
		s.logger.Warn("Failed to extend session", zap.Error(err))
	}
	return session, nil
}

// Resolve returns the principal for sid. It never fails: anything that is not
// a loadable record is a guest.
func (s *SessionService) Resolve(ctx context.Context, sid string) identity.Principal {
	session, err := s.Load(ctx, sid)
	if err != nil {
		if shared.CodeOf(err) != shared.CodeNotAuthenticated {
			s.logger.Warn("Session lookup failed, treating request as guest", zap.Error(err))
		}
		return identity.Guest(sid)
	}
	return identity.Authenticated(sid, session)
}

// RequireRole checks a loaded session against policy
func (s *SessionService) RequireRole(session *identity.Session, policy identity.Policy) error {
	return identity.RequireRole(session, policy)
}

// Logout deletes the record and revokes the cookie until it would have expired anyway
func (s *SessionService) Logout(ctx context.Context, sid string, cookieExpiresAt time.Time) error {
	if sid == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sid); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, sid, time.Until(cookieExpiresAt)); err != nil {
			return fmt.Errorf("failed to revoke session cookie: %w", err)
		}
	}
	s.logger.Info("Signed out")
	return nil
}

func (s *SessionService) recordSignIn(ctx context.Context, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordSignIn(ctx, ok)
	}
}
