package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AllowedImageTypes is the upload whitelist. SVG is excluded because it can carry script.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStorage is implemented by the object-storage adapters (S3, stub)
type ImageStorage interface {
	// PresignUpload returns a URL the browser can PUT the object to, and its expiry
	PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// PublicURL returns where the object is served from once uploaded
	PublicURL(key string) string
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
}

// ImageServiceConfig holds configuration for product-image uploads
type ImageServiceConfig struct {
	UploadURLExpiry time.Duration
	MaxUploadSize   int64
	KeyPrefix       string
}

// DefaultImageServiceConfig returns the default configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
		MaxUploadSize:   5 * 1024 * 1024,
		KeyPrefix:       "products",
	}
}

// ImageService hands out presigned product-image uploads
type ImageService struct {
	storage ImageStorage
	config  ImageServiceConfig
}

// NewImageService creates a new ImageService
func NewImageService(storage ImageStorage, cfg ImageServiceConfig) *ImageService {
	def := DefaultImageServiceConfig()
	if cfg.UploadURLExpiry <= 0 {
		cfg.UploadURLExpiry = def.UploadURLExpiry
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = def.MaxUploadSize
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	return &ImageService{storage: storage, config: cfg}
}

// InitiateUpload validates the file and returns a presigned PUT URL
func (s *ImageService) InitiateUpload(ctx context.Context, p identity.Principal, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if err := identity.RequireRole(p.Session, identity.PolicyDashboard); err != nil {
		return nil, err
	}

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("content type %q is not allowed", req.ContentType))
	}
	if req.FileSize <= 0 || req.FileSize > s.config.MaxUploadSize {
		return nil, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("file size must be between 1 and %d bytes", s.config.MaxUploadSize))
	}

	key := s.objectKey(req.FileName, ext)
	uploadURL, expiresAt, err := s.storage.PresignUpload(ctx, key, contentType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeRemoteError, "failed to prepare image upload", err)
	}

	logger.L(ctx).Info("image upload presigned", zap.String("key", key), zap.Int64("size", req.FileSize))
	return &ImageUploadResponse{
		ObjectKey: key,
		UploadURL: uploadURL,
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// Discard deletes an uploaded image that was never attached to a product
func (s *ImageService) Discard(ctx context.Context, p identity.Principal, key string) error {
	if err := identity.RequireRole(p.Session, identity.PolicyDashboard); err != nil {
		return err
	}
	if !strings.HasPrefix(key, s.config.KeyPrefix+"/") {
		return shared.NewDomainError(shared.CodeInvalidInput, "not a product image key")
	}
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		return shared.WrapDomainError(shared.CodeRemoteError, "failed to look up image", err)
	}
	if !exists {
		return shared.ErrNotFound
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		return shared.WrapDomainError(shared.CodeRemoteError, "failed to delete image", err)
	}
	return nil
}

// objectKey is <prefix>/<yyyy/mm>/<uuid><ext>; the client file name only
// contributes its extension when it agrees with the content type
func (s *ImageService) objectKey(fileName, ext string) string {
	if e := strings.ToLower(filepath.Ext(fileName)); e == ext || (ext == ".jpg" && e == ".jpeg") {
		ext = e
	}
	return fmt.Sprintf("%s/%s/%s%s", s.config.KeyPrefix, time.Now().UTC().Format("2006/01"), uuid.NewString(), ext)
}
