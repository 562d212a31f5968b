package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// SessionCookie writes and clears the session cookie
type SessionCookie struct {
	cfg config.CookieConfig
}

// NewSessionCookie creates a SessionCookie from configuration
func NewSessionCookie(cfg config.CookieConfig) *SessionCookie {
	if cfg.Name == "" {
		cfg.Name = "sf_session"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &SessionCookie{cfg: cfg}
}

// Name returns the cookie name
func (s *SessionCookie) Name() string {
	return s.cfg.Name
}

// Set writes value as an HttpOnly cookie that expires at expiresAt
func (s *SessionCookie) Set(c *gin.Context, value string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    value,
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   max(int(time.Until(expiresAt).Seconds()), 1),
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite(s.cfg.SameSite),
	})
}

// Clear expires the cookie in the browser
func (s *SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    "",
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		MaxAge:   -1,
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite(s.cfg.SameSite),
	})
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
