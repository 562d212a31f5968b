package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// SessionAPI is the slice of the session service the auth endpoints use
type SessionAPI interface {
	SignIn(ctx context.Context, input appidentity.SignInInput) (*appidentity.SignInResult, error)
	Logout(ctx context.Context, sid string, cookieExpiresAt time.Time) error
	IssueGuest() (*appidentity.GuestCookie, error)
}

// SignInRequest carries backend credentials
type SignInRequest struct {
	UserName string `json:"userName" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=200"`
}

// SignInResponse is returned after a successful sign-in
type SignInResponse struct {
	User        appidentity.CurrentUser `json:"user"`
	ExpiresAt   time.Time               `json:"expires_at"`
	MergedItems int                     `json:"merged_items"`
}

// AuthHandler handles sign-in, sign-out and the current principal
type AuthHandler struct {
	BaseHandler
	sessions SessionAPI
	cookie   *SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base BaseHandler, sessions SessionAPI, cookie *SessionCookie) *AuthHandler {
	return &AuthHandler{BaseHandler: base, sessions: sessions, cookie: cookie}
}

// SignIn godoc
// @Summary      Sign in
// @Description  Exchange backend credentials for a session cookie; merges the guest cart
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignInRequest true "Credentials"
// @Success      200 {object} dto.Response{data=SignInResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.sessions.SignIn(c.Request.Context(), appidentity.SignInInput{
		UserName:       req.UserName,
		Password:       req.Password,
		GuestSessionID: principal(c).SessionID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.revokePrevious(c)
	h.cookie.Set(c, result.CookieValue, result.ExpiresAt)
	h.Success(c, SignInResponse{
		User:        appidentity.ToCurrentUser(identity.Authenticated(result.SessionID, result.Session)),
		ExpiresAt:   result.ExpiresAt,
		MergedItems: result.MergedItems,
	})
}

// Logout godoc
// @Summary      Sign out
// @Description  Delete the session record and revoke the cookie
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.revokePrevious(c)
	h.cookie.Clear(c)
	h.NoContent(c)
}

// Me godoc
// @Summary      Current principal
// @Description  Returns the role and display fields of the caller; never the access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.CurrentUser}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	h.Success(c, appidentity.ToCurrentUser(principal(c)))
}

// revokePrevious ends the session the request arrived with. Failures are
// logged; the browser still drops its cookie.
func (h *AuthHandler) revokePrevious(c *gin.Context) {
	claims, ok := middleware.GetSessionClaims(c)
	if !ok {
		return
	}
	expiresAt := time.Now().Add(claims.Remaining(time.Now()))
	if err := h.sessions.Logout(c.Request.Context(), claims.SessionID(), expiresAt); err != nil {
		logger.L(c.Request.Context()).Warn("Failed to end previous session", zap.Error(err))
	}
}

// ensureGuestSession gives an anonymous caller a browsing session so a cart
// has an owner. The new principal replaces the one on the context.
func ensureGuestSession(c *gin.Context, sessions SessionAPI, cookie *SessionCookie) error {
	p := principal(c)
	if !p.IsGuest() || p.SessionID != "" {
		return nil
	}
	guest, err := sessions.IssueGuest()
	if err != nil {
		return err
	}
	cookie.Set(c, guest.CookieValue, guest.ExpiresAt)
	middleware.SetPrincipal(c, identity.Guest(guest.SessionID))
	return nil
}
