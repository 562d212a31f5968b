package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/storefront/backend/internal/infrastructure/config"
)

func testStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Bucket:          "product-images",
		Region:          "eu-west-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		PresignExpiry:   10 * time.Minute,
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials return error", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.SecretAccessKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials are required")
	})

	t.Run("malformed endpoint returns error", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Endpoint = "://bad"
		_, err := NewS3ObjectStorage(cfg)
		assert.Error(t, err)
	})
}

func TestS3ObjectStorage_PresignUpload(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig(), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("signs a path-style PUT", func(t *testing.T) {
		raw, expiresAt, err := s.PresignUpload(ctx, "products/abc.png", "image/png", 0)
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9000", u.Host)
		assert.Equal(t, "/product-images/products/abc.png", u.Path)
		assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
		assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.PresignUpload(ctx, "", "image/png", time.Minute)
		assert.ErrorIs(t, err, ErrKeyRequired)
	})
}

func TestS3ObjectStorage_PublicURL(t *testing.T) {
	t.Run("defaults to endpoint and bucket", func(t *testing.T) {
		s, err := NewS3ObjectStorage(testStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/product-images/products/a.png", s.PublicURL("products/a.png"))
	})

	t.Run("uses configured CDN base", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		s, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/products/a.png", s.PublicURL("/products/a.png"))
	})

	t.Run("aws virtual host without endpoint", func(t *testing.T) {
		cfg := testStorageConfig()
		cfg.Endpoint = ""
		s, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(s.PublicURL("k"), "https://product-images.s3.eu-west-1.amazonaws.com/"))
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	s, err := NewS3ObjectStorage(testStorageConfig())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrKeyRequired)
	assert.Equal(t, "product-images", s.Bucket())
}
