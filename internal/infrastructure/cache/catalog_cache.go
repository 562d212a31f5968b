package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ByteStore is the minimal key/value surface the catalog cache needs
type ByteStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RedisByteStore implements ByteStore on a Redis client
type RedisByteStore struct {
	client redis.UniversalClient
}

// NewRedisByteStore wraps a shared client
func NewRedisByteStore(client redis.UniversalClient) *RedisByteStore {
	return &RedisByteStore{client: client}
}

func (s *RedisByteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisByteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisByteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// MemoryByteStore implements ByteStore in process memory
type MemoryByteStore struct {
	mu      sync.Mutex
	entries map[string]memoryItem
}

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryByteStore creates an empty store
func NewMemoryByteStore() *MemoryByteStore {
	return &MemoryByteStore{entries: make(map[string]memoryItem)}
}

func (s *MemoryByteStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return item.value, true, nil
}

func (s *MemoryByteStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = item
	return nil
}

func (s *MemoryByteStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// CachedResourceRepository is a read-through cache in front of the backend for
// anonymous reads of public collections. Authenticated reads always go to the
// backend, and every successful mutation evicts the collection.
type CachedResourceRepository struct {
	next      catalog.ResourceRepository
	store     ByteStore
	ttl       time.Duration
	keyPrefix string
	recorder  LookupRecorder
}

// LookupRecorder counts cache hits and misses
type LookupRecorder interface {
	RecordCacheLookup(ctx context.Context, kind string, hit bool)
}

// NewCachedResourceRepository decorates next
func NewCachedResourceRepository(next catalog.ResourceRepository, store ByteStore, ttl time.Duration, keyPrefix string) *CachedResourceRepository {
	if keyPrefix == "" {
		keyPrefix = "catalog:"
	}
	return &CachedResourceRepository{next: next, store: store, ttl: ttl, keyPrefix: keyPrefix}
}

// SetRecorder enables hit/miss counting
func (r *CachedResourceRepository) SetRecorder(rec LookupRecorder) {
	r.recorder = rec
}

func (r *CachedResourceRepository) record(ctx context.Context, kind catalog.KindSpec, hit bool) {
	if r.recorder != nil {
		r.recorder.RecordCacheLookup(ctx, string(kind.Kind), hit)
	}
}

func (r *CachedResourceRepository) listKey(kind catalog.KindSpec) string {
	return fmt.Sprintf("%slist:%s", r.keyPrefix, kind.Kind)
}

func (r *CachedResourceRepository) cacheable(kind catalog.KindSpec, token string) bool {
	return kind.Public && token == ""
}

// List serves public anonymous lists from cache when possible.
// Cache failures degrade to a backend read.
func (r *CachedResourceRepository) List(ctx context.Context, kind catalog.KindSpec, token string) ([]catalog.Resource, error) {
	if !r.cacheable(kind, token) {
		return r.next.List(ctx, kind, token)
	}

	key := r.listKey(kind)
	if data, ok, err := r.store.Get(ctx, key); err != nil {
		logger.L(ctx).Warn("catalog cache read failed", zap.String("kind", string(kind.Kind)), zap.Error(err))
	} else if ok {
		items, err := catalog.ParseResources(kind, data)
		if err == nil {
			r.record(ctx, kind, true)
			return items, nil
		}
		_ = r.store.Delete(ctx, key)
	}
	r.record(ctx, kind, false)

	items, err := r.next.List(ctx, kind, token)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(items); err == nil {
		if err := r.store.Set(ctx, key, data, r.ttl); err != nil {
			logger.L(ctx).Warn("catalog cache write failed", zap.String("kind", string(kind.Kind)), zap.Error(err))
		}
	}
	return items, nil
}

func (r *CachedResourceRepository) Get(ctx context.Context, kind catalog.KindSpec, id int64, token string) (*catalog.Resource, error) {
	return r.next.Get(ctx, kind, id, token)
}

func (r *CachedResourceRepository) Create(ctx context.Context, kind catalog.KindSpec, body json.RawMessage, token string) (*catalog.Resource, error) {
	res, err := r.next.Create(ctx, kind, body, token)
	if err == nil {
		r.evict(ctx, kind)
	}
	return res, err
}

func (r *CachedResourceRepository) Update(ctx context.Context, kind catalog.KindSpec, id int64, body json.RawMessage, token string) (*catalog.Resource, error) {
	res, err := r.next.Update(ctx, kind, id, body, token)
	if err == nil {
		r.evict(ctx, kind)
	}
	return res, err
}

func (r *CachedResourceRepository) SetStatus(ctx context.Context, kind catalog.KindSpec, id int64, active bool, token string) error {
	return r.evictAfter(ctx, kind, r.next.SetStatus(ctx, kind, id, active, token))
}

func (r *CachedResourceRepository) SoftDelete(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	return r.evictAfter(ctx, kind, r.next.SoftDelete(ctx, kind, id, token))
}

func (r *CachedResourceRepository) HardDelete(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	return r.evictAfter(ctx, kind, r.next.HardDelete(ctx, kind, id, token))
}

func (r *CachedResourceRepository) Restore(ctx context.Context, kind catalog.KindSpec, id int64, token string) error {
	return r.evictAfter(ctx, kind, r.next.Restore(ctx, kind, id, token))
}

func (r *CachedResourceRepository) evictAfter(ctx context.Context, kind catalog.KindSpec, err error) error {
	if err == nil {
		r.evict(ctx, kind)
	}
	return err
}

func (r *CachedResourceRepository) evict(ctx context.Context, kind catalog.KindSpec) {
	if !kind.Public {
		return
	}
	if err := r.store.Delete(ctx, r.listKey(kind)); err != nil {
		logger.L(ctx).Warn("catalog cache eviction failed", zap.String("kind", string(kind.Kind)), zap.Error(err))
	}
}

var _ catalog.ResourceRepository = (*CachedResourceRepository)(nil)
