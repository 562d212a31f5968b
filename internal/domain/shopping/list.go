package shopping

import (
	"slices"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// List is the cart or wishlist of one owner.
// Entries keep insertion order and are unique by ProductID.
type List struct {
	Owner   OwnerKey `json:"-"`
	Kind    Kind     `json:"kind"`
	Entries []Entry  `json:"entries"`
}

// NewList creates an empty list
func NewList(owner OwnerKey, kind Kind) *List {
	return &List{Owner: owner, Kind: kind, Entries: []Entry{}}
}

// IndexOf returns the position of productID, or -1
func (l *List) IndexOf(productID int64) int {
	return slices.IndexFunc(l.Entries, func(e Entry) bool { return e.ProductID == productID })
}

// Contains reports whether productID is present
func (l *List) Contains(productID int64) bool {
	return l.IndexOf(productID) >= 0
}

// Find returns a copy of the entry for productID
func (l *List) Find(productID int64) (Entry, bool) {
	i := l.IndexOf(productID)
	if i < 0 {
		return Entry{}, false
	}
	return l.Entries[i], true
}

// Add appends an entry, rejecting duplicates
func (l *List) Add(e Entry) error {
	if err := e.Validate(l.Kind); err != nil {
		return err
	}
	if l.Contains(e.ProductID) {
		return shared.ErrDuplicateEntry
	}
	if l.Kind == KindCart && e.Quantity == 0 {
		e.Quantity = 1
	}
	if l.Kind == KindWishlist {
		e.Quantity = 0
		e.SelectedColor = ""
	}
	l.Entries = append(l.Entries, e)
	return nil
}

// Remove deletes the entry for productID
func (l *List) Remove(productID int64) error {
	i := l.IndexOf(productID)
	if i < 0 {
		return shared.ErrNotFound
	}
	l.Entries = slices.Delete(l.Entries, i, i+1)
	return nil
}

// SetQuantity changes a cart line; a quantity of zero or less removes it
func (l *List) SetQuantity(productID int64, qty int) error {
	if l.Kind != KindCart {
		return shared.NewDomainError(shared.CodeInvalidInput, "quantity applies to carts only")
	}
	i := l.IndexOf(productID)
	if i < 0 {
		return shared.ErrNotFound
	}
	if qty <= 0 {
		l.Entries = slices.Delete(l.Entries, i, i+1)
		return nil
	}
	l.Entries[i].Quantity = qty
	return nil
}

// Total sums all line totals
func (l *List) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Entries {
		total = total.Add(e.LineTotal())
	}
	return total
}

// ItemCount sums quantities for carts and counts entries for wishlists
func (l *List) ItemCount() int {
	if l.Kind != KindCart {
		return len(l.Entries)
	}
	n := 0
	for _, e := range l.Entries {
		n += max(e.Quantity, 1)
	}
	return n
}

// MergeFrom copies entries from other that are not already present.
// Returns the product ids that were moved.
func (l *List) MergeFrom(other *List) []int64 {
	var moved []int64
	for _, e := range other.Entries {
		if l.Contains(e.ProductID) {
			continue
		}
		l.Entries = append(l.Entries, e)
		moved = append(moved, e.ProductID)
	}
	return moved
}
