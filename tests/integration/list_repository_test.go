//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func newListRepo(t *testing.T) (*persistence.GormListRepository, *TestDB) {
	t.Helper()
	tdb := NewSharedTestDB(t)
	tdb.CleanTables()
	return persistence.NewGormListRepository(tdb.DB), tdb
}

func TestListRepository_InsertAndGet(t *testing.T) {
	repo, _ := newListRepo(t)
	ctx := context.Background()
	owner := shopping.CustomerOwner(7)

	for _, id := range []int64{30, 10, 20} {
		require.NoError(t, repo.Insert(ctx, owner, shopping.KindCart, shopping.Entry{
			ProductID: id,
			Name:      "item",
			Price:     decimal.RequireFromString("12.50"),
			Quantity:  2,
		}))
	}

	list, err := repo.Get(ctx, owner, shopping.KindCart)
	require.NoError(t, err)
	require.Len(t, list.Entries, 3)
	assert.Equal(t, []int64{30, 10, 20}, []int64{
		list.Entries[0].ProductID, list.Entries[1].ProductID, list.Entries[2].ProductID,
	})
	assert.True(t, list.Entries[0].Price.Equal(decimal.RequireFromString("12.5")))

	wishlist, err := repo.Get(ctx, owner, shopping.KindWishlist)
	require.NoError(t, err)
	assert.Empty(t, wishlist.Entries)
}

func TestListRepository_DuplicateRejected(t *testing.T) {
	repo, _ := newListRepo(t)
	ctx := context.Background()
	owner := shopping.GuestOwner("abc")

	require.NoError(t, repo.Insert(ctx, owner, shopping.KindCart, shopping.Entry{ProductID: 1, Quantity: 1}))
	err := repo.Insert(ctx, owner, shopping.KindCart, shopping.Entry{ProductID: 1, Quantity: 3})
	assert.ErrorIs(t, err, shared.ErrDuplicateEntry)

	// the same product may sit on the wishlist
	require.NoError(t, repo.Insert(ctx, owner, shopping.KindWishlist, shopping.Entry{ProductID: 1, WishlistID: 9}))
}

func TestListRepository_UpdateAndDelete(t *testing.T) {
	repo, _ := newListRepo(t)
	ctx := context.Background()
	owner := shopping.CustomerOwner(3)
	require.NoError(t, repo.Insert(ctx, owner, shopping.KindCart, shopping.Entry{ProductID: 5, Quantity: 1}))

	require.NoError(t, repo.UpdateQuantity(ctx, owner, 5, 4))
	entry, err := repo.Find(ctx, owner, shopping.KindCart, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Quantity)

	require.NoError(t, repo.UpdateQuantity(ctx, owner, 5, 0))
	_, err = repo.Find(ctx, owner, shopping.KindCart, 5)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, owner, shopping.KindCart, 5), shared.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateQuantity(ctx, owner, 99, 2), shared.ErrNotFound)
}

func TestListRepository_PruneGuestLists(t *testing.T) {
	repo, tdb := newListRepo(t)
	ctx := context.Background()
	now := time.Now()

	tdb.InsertEntryAt("session:old", "cart", 1, now.Add(-72*time.Hour))
	tdb.InsertEntryAt("session:old", "wishlist", 2, now.Add(-72*time.Hour))
	tdb.InsertEntryAt("session:fresh", "cart", 1, now)
	tdb.InsertEntryAt("customer:1", "cart", 1, now.Add(-72*time.Hour))

	removed, err := repo.PruneGuestLists(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	fresh, err := repo.Get(ctx, shopping.GuestOwner("fresh"), shopping.KindCart)
	require.NoError(t, err)
	assert.Len(t, fresh.Entries, 1)

	customer, err := repo.Get(ctx, shopping.CustomerOwner(1), shopping.KindCart)
	require.NoError(t, err)
	assert.Len(t, customer.Entries, 1)
}

func TestListRepository_CountEntries(t *testing.T) {
	repo, tdb := newListRepo(t)
	now := time.Now()

	tdb.InsertEntryAt("session:a", "cart", 1, now)
	tdb.InsertEntryAt("session:a", "cart", 2, now)
	tdb.InsertEntryAt("customer:1", "cart", 1, now)
	tdb.InsertEntryAt("customer:1", "wishlist", 1, now)

	counts, err := repo.CountEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []telemetry.ListEntryCount{
		{Kind: "cart", OwnerType: "customer", Entries: 1},
		{Kind: "cart", OwnerType: "guest", Entries: 2},
		{Kind: "wishlist", OwnerType: "customer", Entries: 1},
	}, counts)
}

func TestListRepository_Transaction(t *testing.T) {
	repo, tdb := newListRepo(t)
	ctx := context.Background()
	owner := shopping.CustomerOwner(11)

	tdb.WithTransaction(func(tx *gorm.DB) {
		txRepo := repo.WithTx(tx)
		require.NoError(t, txRepo.Insert(ctx, owner, shopping.KindCart, shopping.Entry{ProductID: 1, Quantity: 1}))
		exists, err := txRepo.Exists(ctx, owner, shopping.KindCart, 1)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	exists, err := repo.Exists(ctx, owner, shopping.KindCart, 1)
	require.NoError(t, err)
	assert.False(t, exists, "rolled back insert must not be visible")
}
