package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by SessionGate
const (
	PrincipalKey     = "principal"
	SessionClaimsKey = "session_claims"
)

// SessionResolver turns a session cookie into a principal
type SessionResolver interface {
	Authenticate(ctx context.Context, cookieValue string) (*auth.SessionClaims, error)
	Resolve(ctx context.Context, sid string) identity.Principal
}

// SessionGateConfig holds configuration for SessionGate
type SessionGateConfig struct {
	Sessions   SessionResolver
	CookieName string
	Logger     *zap.Logger
}

// SessionGate resolves the principal once per request. A missing, invalid or
// revoked cookie yields a guest with no session id; it never rejects.
func SessionGate(cfg SessionGateConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		principal := identity.Guest("")

		if value, err := c.Cookie(cfg.CookieName); err == nil && value != "" {
			claims, err := cfg.Sessions.Authenticate(c.Request.Context(), value)
			switch {
			case err == nil:
				c.Set(SessionClaimsKey, claims)
				principal = cfg.Sessions.Resolve(c.Request.Context(), claims.SessionID())
			case shared.CodeOf(err) != shared.CodeNotAuthenticated:
				log.Warn("Session check failed, treating request as guest",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
			}
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// SetPrincipal stores p on the gin and request contexts
func SetPrincipal(c *gin.Context, p identity.Principal) {
	c.Set(PrincipalKey, p)
	c.Request = c.Request.WithContext(
		logger.WithSession(c.Request.Context(), p.SessionID, string(p.Role())),
	)
}

// GetPrincipal returns the principal resolved by SessionGate, or an empty guest
func GetPrincipal(c *gin.Context) identity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	return identity.Guest("")
}

// GetSessionClaims returns the validated cookie claims, if any
func GetSessionClaims(c *gin.Context) (*auth.SessionClaims, bool) {
	v, ok := c.Get(SessionClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.SessionClaims)
	return claims, ok
}

// DenialRecorder counts rejected role checks
type DenialRecorder interface {
	RecordDenial(ctx context.Context, policy, code string)
}

// RoleGuardConfig holds the landing pages a failed role check points at
type RoleGuardConfig struct {
	// SignInPath is the landing page for NOT_AUTHENTICATED
	SignInPath string
	// HomePath is the landing page for UNAUTHORIZED
	HomePath string
	Recorder DenialRecorder
	Logger   *zap.Logger
}

// RequireRole rejects requests whose principal does not satisfy policy.
// Page navigations get 303 See Other to the landing page, API calls get
// 401/403 JSON carrying the same target in error.redirect_to.
func RequireRole(policy identity.Policy, cfg RoleGuardConfig) gin.HandlerFunc {
	if cfg.SignInPath == "" {
		cfg.SignInPath = "/signin"
	}
	if cfg.HomePath == "" {
		cfg.HomePath = "/dashboard"
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		err := identity.RequireRole(principal.Session, policy)
		if err == nil {
			c.Next()
			return
		}

		code := shared.CodeOf(err)
		landing := cfg.HomePath
		if code == shared.CodeNotAuthenticated {
			landing = cfg.SignInPath
		}
		target := NoticeURL(landing, code)

		if cfg.Recorder != nil {
			cfg.Recorder.RecordDenial(c.Request.Context(), policy.Name, code)
		}
		log.Info("Role check denied request",
			zap.String("request_id", GetRequestID(c)),
			zap.String("policy", policy.Name),
			zap.String("role", string(principal.Role())),
			zap.String("code", code),
		)

		if wantsHTML(c) {
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}

		message := "Please sign in to continue"
		if code != shared.CodeNotAuthenticated {
			message = "Your role does not permit this action"
		}
		c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
			dto.NewRedirectErrorResponse(code, message, GetRequestID(c), target))
	}
}

// NoticeURL appends ?notice=<code> to a landing path
func NoticeURL(landing, code string) string {
	q := url.Values{}
	q.Set("notice", code)
	sep := "?"
	if strings.Contains(landing, "?") {
		sep = "&"
	}
	return landing + sep + q.Encode()
}

// wantsHTML reports whether the request is a browser navigation
func wantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html")
}
