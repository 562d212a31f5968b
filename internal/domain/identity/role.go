package identity

import "slices"

// Role is the derived classification of a principal
type Role string

const (
	RoleGuest    Role = "guest"
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
)

// Observed employee positions. Positions are free-form strings owned by the backend.
const (
	PositionManager  = "Manager"
	PositionEmployee = "Employee"
	PositionAdmin    = "Admin"
)

// Policy is a set of roles (and, for employees, positions) allowed through a guard
type Policy struct {
	Name      string
	Roles     []Role
	Positions []string // empty means any position
}

var (
	// PolicyDashboard admits any employee
	PolicyDashboard = Policy{Name: "dashboard", Roles: []Role{RoleEmployee}}
	// PolicyDestructive admits managers only (hard delete, restore)
	PolicyDestructive = Policy{Name: "destructive", Roles: []Role{RoleEmployee}, Positions: []string{PositionManager}}
	// PolicyCustomer admits signed-in customers (wishlist, checkout)
	PolicyCustomer = Policy{Name: "customer", Roles: []Role{RoleCustomer}}
	// PolicySignedIn admits any authenticated principal
	PolicySignedIn = Policy{Name: "signed_in", Roles: []Role{RoleCustomer, RoleEmployee}}
)

// Allows reports whether the session satisfies the policy. A nil session is a guest.
func (p Policy) Allows(s *Session) bool {
	role := s.Role()
	if !slices.Contains(p.Roles, role) {
		return false
	}
	if role == RoleEmployee && len(p.Positions) > 0 {
		return slices.Contains(p.Positions, s.Position())
	}
	return true
}
