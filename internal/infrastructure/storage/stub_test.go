package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage_Lifecycle(t *testing.T) {
	s := NewStubObjectStorage("http://files.local/")
	ctx := context.Background()

	exists, err := s.ObjectExists(ctx, "products/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	url, expiresAt, err := s.PresignUpload(ctx, "products/a.png", "image/png", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://files.local/upload/products/a.png?")
	assert.True(t, expiresAt.After(time.Now()))

	exists, err = s.ObjectExists(ctx, "products/a.png")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "http://files.local/products/a.png", s.PublicURL("products/a.png"))

	require.NoError(t, s.DeleteObject(ctx, "products/a.png"))
	exists, err = s.ObjectExists(ctx, "products/a.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStubObjectStorage_EmptyKey(t *testing.T) {
	s := NewStubObjectStorage("")
	ctx := context.Background()

	_, _, err := s.PresignUpload(ctx, "", "image/png", time.Minute)
	assert.ErrorIs(t, err, ErrKeyRequired)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), ErrKeyRequired)
	_, err = s.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, ErrKeyRequired)
}
