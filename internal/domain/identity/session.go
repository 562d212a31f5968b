package identity

import (
	"encoding/json"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// CustomerRef identifies the customer behind a signed-in session
type CustomerRef struct {
	CustomerID int64  `json:"customerId"`
	FullName   string `json:"fullName,omitempty"`
	UserName   string `json:"userName,omitempty"`
}

// EmployeeRef identifies the employee behind a signed-in session
type EmployeeRef struct {
	EmployeeID int64  `json:"employeeId"`
	Position   string `json:"position"`
	FullName   string `json:"fullName,omitempty"`
}

// Session is the persisted record of the current principal, stored exactly as
// the backend sign-in call returned it.
// At most one of Customer / Employee is populated.
type Session struct {
	UserName    string       `json:"userName,omitempty"`
	AccessToken string       `json:"accessToken,omitempty"`
	Customer    *CustomerRef `json:"customer,omitempty"`
	Employee    *EmployeeRef `json:"employee,omitempty"`
}

// envelope is the storage shape: {"state": {...session fields...}}
type envelope struct {
	State *Session `json:"state"`
}

// Role derives the principal's role from the populated fields
func (s *Session) Role() Role {
	if s == nil || strings.TrimSpace(s.AccessToken) == "" {
		return RoleGuest
	}
	switch {
	case s.Employee != nil:
		return RoleEmployee
	case s.Customer != nil:
		return RoleCustomer
	default:
		return RoleGuest
	}
}

// Position returns the employee position, or "" for non-employees
func (s *Session) Position() string {
	if s == nil || s.Employee == nil {
		return ""
	}
	return s.Employee.Position
}

// CustomerID returns the customer id and whether the session belongs to a customer
func (s *Session) CustomerID() (int64, bool) {
	if s == nil || s.Customer == nil {
		return 0, false
	}
	return s.Customer.CustomerID, true
}

// DisplayName picks the most specific human-readable name available
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if s.Employee != nil && s.Employee.FullName != "" {
		return s.Employee.FullName
	}
	if s.Customer != nil && s.Customer.FullName != "" {
		return s.Customer.FullName
	}
	return s.UserName
}

// Validate checks the record's invariants
func (s *Session) Validate() error {
	if s == nil {
		return shared.NewDomainError(shared.CodeNotAuthenticated, "Session record is empty")
	}
	if s.Customer != nil && s.Employee != nil {
		return shared.NewDomainError(shared.CodeNotAuthenticated, "Session record carries both a customer and an employee")
	}
	if s.Customer == nil && s.Employee == nil {
		return shared.NewDomainError(shared.CodeNotAuthenticated, "Session record carries neither a customer nor an employee")
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return shared.NewDomainError(shared.CodeNotAuthenticated, "Session record has no access token")
	}
	return nil
}

// EncodeSession serializes a session into its storage envelope
func EncodeSession(s *Session) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(envelope{State: s})
}

// DecodeSession parses a stored blob.
// Absent, unparseable, or structurally incomplete records fail with NOT_AUTHENTICATED.
func DecodeSession(raw []byte) (*Session, error) {
	if len(raw) == 0 {
		return nil, shared.ErrNotAuthenticated
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, shared.WrapDomainError(shared.CodeNotAuthenticated, "Session record is unreadable", err)
	}
	if env.State == nil {
		return nil, shared.NewDomainError(shared.CodeNotAuthenticated, "Session record has no state")
	}
	if err := env.State.Validate(); err != nil {
		return nil, err
	}
	return env.State, nil
}
