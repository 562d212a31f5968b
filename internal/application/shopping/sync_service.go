package shopping

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// RemoteLists is the backend side of list synchronization
type RemoteLists interface {
	CreateWishlist(ctx context.Context, token string, customerID, productID int64) (int64, error)
	DeleteWishlist(ctx context.Context, token string, wishlistID int64) error
	LookupProduct(ctx context.Context, productID int64) (*catalog.Resource, error)
}

// CommandRecorder counts list mutations
type CommandRecorder interface {
	RecordListCommand(ctx context.Context, kind, operation string, err error)
}

// Backend attribute names copied into cart entries
const (
	productPriceField = "price"
	productImageField = "imageUrl"
)

// commitTimeout bounds the local write that follows a confirmed backend call
const commitTimeout = 5 * time.Second

// detached drops the caller's cancellation. Once the backend has accepted a
// change, the local write must happen even if the client went away.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
}

// SyncService keeps carts and wishlists in the list store, mirroring
// wishlist changes on the backend. Local state changes only after the remote
// call succeeded, and mutations of one list never interleave.
type SyncService struct {
	repo    shopping.ListRepository
	remote  RemoteLists
	queue   *CommandQueue
	metrics CommandRecorder
	logger  *zap.Logger
}

// NewSyncService creates a new SyncService with its own command queue
func NewSyncService(repo shopping.ListRepository, remote RemoteLists, cfg QueueConfig, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		repo:   repo,
		remote: remote,
		queue:  NewCommandQueue(cfg),
		logger: logger,
	}
}

// SetMetrics enables list command counters
func (s *SyncService) SetMetrics(r CommandRecorder) {
	s.metrics = r
}

// Close drains the command queue
func (s *SyncService) Close() {
	s.queue.Close()
}

// OwnerFor picks the list owner of a principal: customers own their lists by
// account, everyone else by browsing session
func OwnerFor(p identity.Principal) (shopping.OwnerKey, error) {
	if !p.IsGuest() {
		if id, ok := p.Session.CustomerID(); ok {
			return shopping.CustomerOwner(id), nil
		}
	}
	owner := shopping.GuestOwner(p.SessionID)
	if owner.Empty() {
		return "", shared.ErrNotAuthenticated
	}
	return owner, nil
}

// Submit applies a command in its list's slot
func (s *SyncService) Submit(ctx context.Context, cmd shopping.Command) (Result, error) {
	target := cmd.Target()
	result, err := s.queue.Do(ctx, target, func(ctx context.Context) (Result, error) {
		ctx, span := telemetry.StartServiceSpan(ctx, "lists", cmd.Name(),
			telemetry.WithAttribute(telemetry.SpanAttrOwner, target.Owner.String()),
			telemetry.WithAttribute(telemetry.SpanAttrListKind, string(target.Kind)),
		)
		defer span.End()

		result, err := s.apply(ctx, cmd)
		if err != nil {
			telemetry.RecordError(span, err)
		}
		return result, err
	})
	if s.metrics != nil {
		s.metrics.RecordListCommand(ctx, string(target.Kind), cmd.Name(), err)
	}
	return result, err
}

func (s *SyncService) apply(ctx context.Context, cmd shopping.Command) (Result, error) {
	switch c := cmd.(type) {
	case shopping.AddCommand:
		e, err := s.add(ctx, c)
		return Result{Entry: e}, err
	case shopping.RemoveCommand:
		return Result{}, s.remove(ctx, c)
	case shopping.UpdateQuantityCommand:
		return Result{}, s.updateQuantity(ctx, c)
	case shopping.ClearCommand:
		return Result{}, s.repo.Clear(ctx, c.Owner, c.Kind)
	case shopping.MergeCommand:
		n, err := s.merge(ctx, c)
		return Result{Moved: n}, err
	default:
		return Result{}, fmt.Errorf("unknown list command %T", cmd)
	}
}

// Add puts a product on a list. A product already present fails with
// DUPLICATE_ENTRY before any backend call.
func (s *SyncService) Add(ctx context.Context, cmd shopping.AddCommand) (*shopping.Entry, error) {
	result, err := s.Submit(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return result.Entry, nil
}

// Remove takes a product off a list
func (s *SyncService) Remove(ctx context.Context, cmd shopping.RemoveCommand) error {
	_, err := s.Submit(ctx, cmd)
	return err
}

// UpdateQuantity changes a cart line; zero or less removes it
func (s *SyncService) UpdateQuantity(ctx context.Context, owner shopping.OwnerKey, productID int64, qty int) error {
	_, err := s.Submit(ctx, shopping.UpdateQuantityCommand{Owner: owner, ProductID: productID, Quantity: qty})
	return err
}

// Clear empties a list locally
func (s *SyncService) Clear(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) error {
	_, err := s.Submit(ctx, shopping.ClearCommand{Owner: owner, Kind: kind})
	return err
}

// Merge moves guest cart lines the customer cart does not have yet, then
// empties the guest cart. Returns how many lines moved.
func (s *SyncService) Merge(ctx context.Context, from, to shopping.OwnerKey) (int, error) {
	if from == to || from.Empty() {
		return 0, nil
	}
	result, err := s.Submit(ctx, shopping.MergeCommand{From: from, Owner: to})
	return result.Moved, err
}

// List returns the entries of a list in insertion order
func (s *SyncService) List(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) (*shopping.List, error) {
	return s.repo.Get(ctx, owner, kind)
}

// IsPresent reports whether productID is on the list. Storage errors read as absent.
func (s *SyncService) IsPresent(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind, productID int64) bool {
	ok, err := s.repo.Exists(ctx, owner, kind, productID)
	if err != nil {
		s.logger.Warn("List lookup failed", zap.String("owner", owner.String()), zap.Error(err))
		return false
	}
	return ok
}

// ConsumeCart runs fn with the owner's cart inside the cart's slot and
// clears the cart only when fn succeeds
func (s *SyncService) ConsumeCart(ctx context.Context, owner shopping.OwnerKey, fn func(ctx context.Context, cart *shopping.List) error) error {
	target := shopping.Target{Owner: owner, Kind: shopping.KindCart}
	_, err := s.queue.Do(ctx, target, func(ctx context.Context) (Result, error) {
		cart, err := s.repo.Get(ctx, owner, shopping.KindCart)
		if err != nil {
			return Result{}, err
		}
		if err := fn(ctx, cart); err != nil {
			return Result{}, err
		}
		clearCtx, cancel := detached(ctx)
		defer cancel()
		if err := s.repo.Clear(clearCtx, owner, shopping.KindCart); err != nil {
			// the order went through; a stale cart is the lesser problem
			s.logger.Error("Failed to clear cart after checkout", zap.String("owner", owner.String()), zap.Error(err))
		}
		return Result{}, nil
	})
	return err
}

func (s *SyncService) add(ctx context.Context, c shopping.AddCommand) (*shopping.Entry, error) {
	if !c.Kind.Valid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unknown list")
	}
	exists, err := s.repo.Exists(ctx, c.Owner, c.Kind, c.Entry.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrDuplicateEntry
	}
	entry := c.Entry
	if err := entry.Validate(c.Kind); err != nil {
		return nil, err
	}

	switch c.Kind {
	case shopping.KindWishlist:
		if c.CustomerID <= 0 || c.AccessToken == "" {
			return nil, shared.ErrNotAuthenticated
		}
		wishlistID, err := s.remote.CreateWishlist(ctx, c.AccessToken, c.CustomerID, entry.ProductID)
		if err != nil {
			return nil, err
		}
		entry.WishlistID = wishlistID
		entry.Quantity = 0
		entry.SelectedColor = ""
	default:
		product, err := s.remote.LookupProduct(ctx, entry.ProductID)
		if err != nil {
			return nil, err
		}
		if product.InTrash {
			return nil, shared.NewDomainError(shared.CodeNotFound, "product is no longer available")
		}
		fillFromProduct(&entry, product)
		if entry.Quantity <= 0 {
			entry.Quantity = 1
		}
	}

	commitCtx, cancel := detached(ctx)
	defer cancel()
	if err := s.repo.Insert(commitCtx, c.Owner, c.Kind, entry); err != nil {
		if c.Kind == shopping.KindWishlist {
			s.compensateWishlist(commitCtx, c.AccessToken, entry.WishlistID)
		}
		return nil, err
	}
	return &entry, nil
}

// compensateWishlist undoes a remote create whose local insert failed.
// ctx must already be detached from the caller.
func (s *SyncService) compensateWishlist(ctx context.Context, token string, wishlistID int64) {
	if err := s.remote.DeleteWishlist(ctx, token, wishlistID); err != nil {
		s.logger.Error("Failed to roll back remote wishlist entry",
			zap.Int64("wishlist_id", wishlistID), zap.Error(err))
	}
}

func (s *SyncService) remove(ctx context.Context, c shopping.RemoveCommand) error {
	entry, err := s.repo.Find(ctx, c.Owner, c.Kind, c.ProductID)
	if err != nil {
		return err
	}
	if !entry.Removable(c.Kind) {
		return shared.NewDomainError(shared.CodeNotFound, "wishlist entry has no server id")
	}
	if c.Kind != shopping.KindWishlist {
		return s.repo.Delete(ctx, c.Owner, c.Kind, c.ProductID)
	}
	if err := s.remote.DeleteWishlist(ctx, c.AccessToken, entry.WishlistID); err != nil {
		return err
	}
	commitCtx, cancel := detached(ctx)
	defer cancel()
	return s.repo.Delete(commitCtx, c.Owner, c.Kind, c.ProductID)
}

func (s *SyncService) updateQuantity(ctx context.Context, c shopping.UpdateQuantityCommand) error {
	if _, err := s.repo.Find(ctx, c.Owner, shopping.KindCart, c.ProductID); err != nil {
		return err
	}
	if c.Quantity <= 0 {
		return s.repo.Delete(ctx, c.Owner, shopping.KindCart, c.ProductID)
	}
	return s.repo.UpdateQuantity(ctx, c.Owner, c.ProductID, c.Quantity)
}

func (s *SyncService) merge(ctx context.Context, c shopping.MergeCommand) (int, error) {
	guest, err := s.repo.Get(ctx, c.From, shopping.KindCart)
	if err != nil {
		return 0, err
	}
	if len(guest.Entries) == 0 {
		return 0, nil
	}
	target, err := s.repo.Get(ctx, c.Owner, shopping.KindCart)
	if err != nil {
		return 0, err
	}

	moved := 0
	err = s.repo.Atomically(ctx, func(repo shopping.ListRepository) error {
		moved = 0
		for _, e := range guest.Entries {
			if target.Contains(e.ProductID) {
				continue
			}
			if err := repo.Insert(ctx, c.Owner, shopping.KindCart, e); err != nil {
				return err
			}
			moved++
		}
		return repo.Clear(ctx, c.From, shopping.KindCart)
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Guest cart merged", zap.String("owner", c.Owner.String()), zap.Int("moved", moved))
	return moved, nil
}

// fillFromProduct takes the backend's current price and fills display fields
// the client left empty
func fillFromProduct(e *shopping.Entry, product *catalog.Resource) {
	if raw := product.String(productPriceField); raw != "" {
		if price, err := decimal.NewFromString(raw); err == nil {
			e.Price = price
		}
	}
	if e.Name == "" {
		e.Name = product.Name
	}
	if e.ImageURL == "" {
		e.ImageURL = product.String(productImageField)
	}
}
