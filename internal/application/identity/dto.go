package identity

import (
	"time"

	"github.com/storefront/backend/internal/domain/identity"
)

// SignInInput contains the credentials forwarded to the backend
type SignInInput struct {
	UserName string
	Password string
	// GuestSessionID is the browsing session the guest cart was kept under, if any
	GuestSessionID string
}

// SignInResult contains the new session and the cookie that points at it
type SignInResult struct {
	Session     *identity.Session
	SessionID   string
	CookieValue string
	ExpiresAt   time.Time
	// MergedItems counts guest cart lines moved into the customer cart
	MergedItems int
}

// GuestCookie is an anonymous browsing-session cookie
type GuestCookie struct {
	SessionID   string
	CookieValue string
	ExpiresAt   time.Time
}

// CurrentUser is the principal as shown to the browser. The access token is never exposed.
type CurrentUser struct {
	Role        identity.Role `json:"role"`
	UserName    string        `json:"user_name,omitempty"`
	DisplayName string        `json:"display_name,omitempty"`
	Position    string        `json:"position,omitempty"`
	CustomerID  int64         `json:"customer_id,omitempty"`
	EmployeeID  int64         `json:"employee_id,omitempty"`
}

// ToCurrentUser projects a principal
func ToCurrentUser(p identity.Principal) CurrentUser {
	if p.IsGuest() {
		return CurrentUser{Role: identity.RoleGuest}
	}
	s := p.Session
	u := CurrentUser{
		Role:        s.Role(),
		UserName:    s.UserName,
		DisplayName: s.DisplayName(),
		Position:    s.Position(),
	}
	if s.Customer != nil {
		u.CustomerID = s.Customer.CustomerID
	}
	if s.Employee != nil {
		u.EmployeeID = s.Employee.EmployeeID
	}
	return u
}
