package shopping

import "context"

// ListRepository persists carts and wishlists
type ListRepository interface {
	// Get loads a list; a list that was never written comes back empty
	Get(ctx context.Context, owner OwnerKey, kind Kind) (*List, error)

	// Find returns one entry, or shared.ErrNotFound
	Find(ctx context.Context, owner OwnerKey, kind Kind, productID int64) (*Entry, error)

	// Exists reports whether productID is in the list
	Exists(ctx context.Context, owner OwnerKey, kind Kind, productID int64) (bool, error)

	// Insert appends an entry, or fails with shared.ErrDuplicateEntry
	Insert(ctx context.Context, owner OwnerKey, kind Kind, entry Entry) error

	// Delete removes an entry, or fails with shared.ErrNotFound
	Delete(ctx context.Context, owner OwnerKey, kind Kind, productID int64) error

	// UpdateQuantity sets the quantity of a cart line
	UpdateQuantity(ctx context.Context, owner OwnerKey, productID int64, qty int) error

	// Clear removes every entry of a list
	Clear(ctx context.Context, owner OwnerKey, kind Kind) error

	// Atomically runs fn against a repository whose writes commit together;
	// an error from fn discards all of them
	Atomically(ctx context.Context, fn func(repo ListRepository) error) error
}
