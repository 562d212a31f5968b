package identity

import (
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_Allows(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		session *Session
		want    bool
	}{
		{"dashboard admits clerk", PolicyDashboard, clerkSession(), true},
		{"dashboard admits manager", PolicyDashboard, managerSession(), true},
		{"dashboard rejects customer", PolicyDashboard, customerSession(), false},
		{"dashboard rejects guest", PolicyDashboard, nil, false},
		{"destructive admits manager", PolicyDestructive, managerSession(), true},
		{"destructive rejects clerk", PolicyDestructive, clerkSession(), false},
		{"destructive rejects admin position", PolicyDestructive, &Session{AccessToken: "t", Employee: &EmployeeRef{Position: PositionAdmin}}, false},
		{"destructive is case sensitive", PolicyDestructive, &Session{AccessToken: "t", Employee: &EmployeeRef{Position: "manager"}}, false},
		{"customer admits customer", PolicyCustomer, customerSession(), true},
		{"customer rejects employee", PolicyCustomer, managerSession(), false},
		{"signed in admits both", PolicySignedIn, customerSession(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Allows(tt.session))
		})
	}
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(managerSession(), PolicyDestructive))
	assert.ErrorIs(t, RequireRole(clerkSession(), PolicyDestructive), shared.ErrUnauthorized)
	assert.ErrorIs(t, RequireRole(nil, PolicyDashboard), shared.ErrNotAuthenticated)
	assert.ErrorIs(t, RequireRole(&Session{}, PolicyDashboard), shared.ErrNotAuthenticated)
}

func TestPrincipal(t *testing.T) {
	guest := Guest("sid-1")
	assert.True(t, guest.IsGuest())
	assert.Equal(t, RoleGuest, guest.Role())
	assert.Empty(t, guest.AccessToken())

	auth := Authenticated("sid-2", customerSession())
	assert.False(t, auth.IsGuest())
	assert.Equal(t, RoleCustomer, auth.Role())
	assert.Equal(t, "tok-customer", auth.AccessToken())

	broken := Principal{Kind: KindAuthenticated}
	assert.True(t, broken.IsGuest())
}
