//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisSessionStore(t *testing.T) {
	client := NewTestRedis(t)
	store := session.NewRedisStore(client, "")
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, identity.ErrSessionNotFound)
	assert.ErrorIs(t, store.Touch(ctx, "missing", time.Minute), identity.ErrSessionNotFound)

	blob := []byte(`{"state":{"userName":"ann"}}`)
	require.NoError(t, store.Save(ctx, "sid-1", blob, time.Minute))

	got, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.JSONEq(t, string(blob), string(got))

	require.NoError(t, store.Touch(ctx, "sid-1", time.Hour))
	ttl, err := client.TTL(ctx, "session:sid-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Minute)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, identity.ErrSessionNotFound)
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	client := NewTestRedis(t)
	store := session.NewRedisStore(client, "test:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", []byte(`{}`), 500*time.Millisecond))
	assert.Eventually(t, func() bool {
		_, err := store.Load(ctx, "short")
		return err == identity.ErrSessionNotFound
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisTokenBlacklist(t *testing.T) {
	client := NewTestRedis(t)
	blacklist := auth.NewRedisTokenBlacklistWithClient(client)
	ctx := context.Background()

	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Minute))
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := NewTestRedis(t)
	store := cache.NewIdempotencyStoreFactory(client, cache.WithKeyPrefix("checkout:")).CreateStore()
	ctx := context.Background()

	first, err := store.MarkProcessed(ctx, "order-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkProcessed(ctx, "order-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	require.NoError(t, store.Release(ctx, "order-1"))
	retry, err := store.MarkProcessed(ctx, "order-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, retry)
}

func TestRedisByteStore(t *testing.T) {
	client := NewTestRedis(t)
	store := cache.NewRedisByteStore(client)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "catalog:brands")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "catalog:brands", []byte(`[1,2]`), time.Minute))
	data, ok, err := store.Get(ctx, "catalog:brands")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1,2]`, string(data))

	require.NoError(t, store.Delete(ctx))
	require.NoError(t, store.Delete(ctx, "catalog:brands"))
	_, ok, err = store.Get(ctx, "catalog:brands")
	require.NoError(t, err)
	assert.False(t, ok)
}
