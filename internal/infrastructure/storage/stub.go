package storage

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*StubObjectStorage)(nil)

// StubObjectStorage hands out fake upload URLs for development.
// Presigned keys are remembered so ObjectExists can confirm them.
type StubObjectStorage struct {
	BaseURL string

	mu   sync.Mutex
	keys map[string]struct{}
}

// NewStubObjectStorage creates a stub rooted at baseURL
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/storefront-images"
	}
	return &StubObjectStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		keys:    make(map[string]struct{}),
	}
}

// PresignUpload returns a fake upload URL for key
func (s *StubObjectStorage) PresignUpload(_ context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	expiresAt := time.Now().Add(expiresIn)

	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()

	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	q.Set("content-type", contentType)
	return s.BaseURL + "/upload/" + key + "?" + q.Encode(), expiresAt, nil
}

// PublicURL returns the stub download location
func (s *StubObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + strings.TrimLeft(key, "/")
}

// ObjectExists reports whether key was presigned through this stub
func (s *StubObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrKeyRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[key]
	return ok, nil
}

// DeleteObject forgets key
func (s *StubObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}
