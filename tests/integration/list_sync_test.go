//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	appshopping "github.com/storefront/backend/internal/application/shopping"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeBackend answers product lookups and records wishlist calls
type fakeBackend struct {
	mu      sync.Mutex
	nextID  int64
	deleted []int64
	prices  map[int64]string
}

func (b *fakeBackend) CreateWishlist(_ context.Context, _ string, _, _ int64) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID, nil
}

func (b *fakeBackend) DeleteWishlist(_ context.Context, _ string, wishlistID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, wishlistID)
	return nil
}

func (b *fakeBackend) LookupProduct(_ context.Context, productID int64) (*catalog.Resource, error) {
	price, _ := json.Marshal(b.prices[productID])
	return &catalog.Resource{
		ID:         productID,
		Name:       "product",
		Attributes: map[string]json.RawMessage{"price": price},
	}, nil
}

func newSyncService(t *testing.T) (*appshopping.SyncService, *fakeBackend, *TestDB) {
	t.Helper()
	repo, tdb := newListRepo(t)
	backend := &fakeBackend{prices: map[int64]string{1: "9.99", 2: "20.00", 3: "5.00"}}
	svc := appshopping.NewSyncService(repo, backend, appshopping.DefaultQueueConfig(), zaptest.NewLogger(t))
	t.Cleanup(svc.Close)
	return svc, backend, tdb
}

func TestListSync_GuestCartMergesIntoCustomerCart(t *testing.T) {
	svc, _, _ := newSyncService(t)
	ctx := context.Background()
	guest := shopping.GuestOwner("guest-1")
	customer := shopping.CustomerOwner(42)

	for _, id := range []int64{1, 2} {
		_, err := svc.Add(ctx, shopping.AddCommand{Owner: guest, Kind: shopping.KindCart, Entry: shopping.Entry{ProductID: id, Quantity: 2}})
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, shopping.AddCommand{Owner: customer, Kind: shopping.KindCart, Entry: shopping.Entry{ProductID: 2, Quantity: 1}})
	require.NoError(t, err)

	moved, err := svc.Merge(ctx, guest, customer)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	cart, err := svc.List(ctx, customer, shopping.KindCart)
	require.NoError(t, err)
	require.Len(t, cart.Entries, 2)
	assert.Equal(t, int64(2), cart.Entries[0].ProductID)
	assert.Equal(t, 1, cart.Entries[0].Quantity, "existing customer line is kept")
	assert.True(t, cart.Entries[1].Price.Equal(decimal.RequireFromString("9.99")))

	left, err := svc.List(ctx, guest, shopping.KindCart)
	require.NoError(t, err)
	assert.Empty(t, left.Entries)
}

func TestListSync_ConcurrentAddsKeepOneLine(t *testing.T) {
	svc, _, _ := newSyncService(t)
	ctx := context.Background()
	owner := shopping.CustomerOwner(5)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, shopping.AddCommand{Owner: owner, Kind: shopping.KindCart, Entry: shopping.Entry{ProductID: 3, Quantity: 1}})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok int
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, 1, ok)

	cart, err := svc.List(ctx, owner, shopping.KindCart)
	require.NoError(t, err)
	assert.Len(t, cart.Entries, 1)
}

func TestListSync_WishlistMirrorsBackend(t *testing.T) {
	svc, backend, _ := newSyncService(t)
	ctx := context.Background()
	owner := shopping.CustomerOwner(42)

	entry, err := svc.Add(ctx, shopping.AddCommand{
		Owner: owner, Kind: shopping.KindWishlist,
		Entry:      shopping.Entry{ProductID: 1},
		CustomerID: 42, AccessToken: "token",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.WishlistID)
	assert.True(t, svc.IsPresent(ctx, owner, shopping.KindWishlist, 1))

	require.NoError(t, svc.Remove(ctx, shopping.RemoveCommand{
		Owner: owner, Kind: shopping.KindWishlist, ProductID: 1, AccessToken: "token",
	}))
	assert.Equal(t, []int64{1}, backend.deleted)
	assert.False(t, svc.IsPresent(ctx, owner, shopping.KindWishlist, 1))
}

func TestListSync_JanitorPrunesAbandonedGuestCarts(t *testing.T) {
	repo, tdb := newListRepo(t)
	now := time.Now()
	tdb.InsertEntryAt("session:gone", "cart", 1, now.Add(-48*time.Hour))
	tdb.InsertEntryAt("session:live", "cart", 1, now)

	s := scheduler.NewScheduler(scheduler.SchedulerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop(context.Background()) }()

	job, err := s.SubmitTask(scheduler.NewGuestPruneTask(repo, 24*time.Hour, zaptest.NewLogger(t)))
	require.NoError(t, err)
	require.NotNil(t, job)

	assert.Eventually(t, func() bool {
		exists, err := repo.Exists(context.Background(), shopping.GuestOwner("gone"), shopping.KindCart, 1)
		return err == nil && !exists
	}, 5*time.Second, 50*time.Millisecond)

	exists, err := repo.Exists(context.Background(), shopping.GuestOwner("live"), shopping.KindCart, 1)
	require.NoError(t, err)
	assert.True(t, exists)
}
