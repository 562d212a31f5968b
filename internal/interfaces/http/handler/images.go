package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/identity"
)

// ImageAPI hands out product-image uploads
type ImageAPI interface {
	InitiateUpload(ctx context.Context, p identity.Principal, req appcatalog.ImageUploadRequest) (*appcatalog.ImageUploadResponse, error)
	Discard(ctx context.Context, p identity.Principal, key string) error
}

// ImageHandler serves product-image uploads for the dashboard
type ImageHandler struct {
	BaseHandler
	images ImageAPI
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(base BaseHandler, images ImageAPI) *ImageHandler {
	return &ImageHandler{BaseHandler: base, images: images}
}

// InitiateUpload godoc
// @Summary      Presign a product image upload
// @Description  The client PUTs the file to upload_url, then sends object_key with the product
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        request body catalog.ImageUploadRequest true "File"
// @Success      201 {object} dto.Response{data=catalog.ImageUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /dashboard/products/images [post]
func (h *ImageHandler) InitiateUpload(c *gin.Context) {
	var req appcatalog.ImageUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.images.InitiateUpload(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Discard deletes an uploaded image that was never attached to a product
func (h *ImageHandler) Discard(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "key is required")
		return
	}
	if err := h.images.Discard(c.Request.Context(), principal(c), key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
