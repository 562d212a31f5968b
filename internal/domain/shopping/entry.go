package shopping

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Kind distinguishes the two persisted lists
type Kind string

const (
	KindCart     Kind = "cart"
	KindWishlist Kind = "wishlist"
)

// Valid reports whether k names a known list
func (k Kind) Valid() bool {
	return k == KindCart || k == KindWishlist
}

// ParseKind converts a path segment into a Kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown list %q", s))
	}
	return k, nil
}

// Entry is one product reference inside a cart or wishlist.
// Quantity and SelectedColor are only meaningful for carts, WishlistID only for wishlists.
type Entry struct {
	ProductID     int64           `json:"productId"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Quantity      int             `json:"quantity,omitempty"`
	SelectedColor string          `json:"selectedColor,omitempty"`
	WishlistID    int64           `json:"wishlistId,omitempty"`
}

// Removable reports whether the entry can be removed from a list of the given kind.
// A wishlist entry that never received a server id cannot be deleted remotely.
func (e Entry) Removable(kind Kind) bool {
	if kind == KindWishlist {
		return e.WishlistID > 0
	}
	return true
}

// LineTotal returns price * quantity (quantity 0 counts as 1)
func (e Entry) LineTotal() decimal.Decimal {
	q := e.Quantity
	if q <= 0 {
		q = 1
	}
	return e.Price.Mul(decimal.NewFromInt(int64(q)))
}

// Validate checks the entry before it is stored
func (e Entry) Validate(kind Kind) error {
	if e.ProductID <= 0 {
		return shared.NewDomainError(shared.CodeValidation, "product id must be positive")
	}
	if e.Price.IsNegative() {
		return shared.NewDomainError(shared.CodeValidation, "price cannot be negative")
	}
	if kind == KindCart && e.Quantity < 0 {
		return shared.NewDomainError(shared.CodeValidation, "quantity cannot be negative")
	}
	return nil
}

// OwnerKey identifies whose lists are addressed.
// Guests are keyed by browsing session, signed-in customers by customer id.
type OwnerKey string

// GuestOwner keys lists to a browsing session
func GuestOwner(sessionID string) OwnerKey {
	return OwnerKey("session:" + sessionID)
}

// CustomerOwner keys lists to a customer account
func CustomerOwner(customerID int64) OwnerKey {
	return OwnerKey(fmt.Sprintf("customer:%d", customerID))
}

func (o OwnerKey) String() string { return string(o) }

// Empty reports whether no owner is set
func (o OwnerKey) Empty() bool {
	return o == "" || o == "session:"
}
