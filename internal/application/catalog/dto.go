package catalog

import (
	"encoding/json"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ListRequest are the inputs of one dashboard list screen
type ListRequest struct {
	Kind   string
	Page   int
	Search string
}

// ListResponse is one page of a dashboard or storefront collection
type ListResponse struct {
	Kind       catalog.Kind       `json:"kind"`
	PageParam  string             `json:"page_param"`
	Filter     string             `json:"filter"`
	Search     string             `json:"search,omitempty"`
	Items      []catalog.Resource `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func toListResponse(kind catalog.KindSpec, filter catalog.StatusFilter, search string, page shared.Paginated[catalog.Resource]) *ListResponse {
	return &ListResponse{
		Kind:       kind.Kind,
		PageParam:  kind.PageParam,
		Filter:     string(filter),
		Search:     search,
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

// Paginated returns the page metadata without items, for link building
func (r *ListResponse) Paginated() shared.Paginated[catalog.Resource] {
	return shared.Paginated[catalog.Resource]{
		Items:      r.Items,
		Total:      r.Total,
		Page:       r.Page,
		PageSize:   r.PageSize,
		TotalPages: r.TotalPages,
	}
}

// WriteRequest carries a create or update body forwarded verbatim to the backend
type WriteRequest struct {
	Kind string
	ID   int64
	Body json.RawMessage
}

// KindCount is the active / trashbin split of one collection
type KindCount struct {
	Kind   catalog.Kind `json:"kind"`
	Active int          `json:"active"`
	Trash  int          `json:"trash"`
	Error  string       `json:"error,omitempty"`
}

// OverviewResponse summarizes every dashboard collection
type OverviewResponse struct {
	Counts      []KindCount `json:"counts"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// ProductQuery filters the storefront product grid
type ProductQuery struct {
	Page       int
	CategoryID int64
	BrandID    int64
	Search     string
}

// ImageUploadRequest asks for a presigned product-image upload
type ImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
}

// ImageUploadResponse is handed to the dashboard, which PUTs the file to UploadURL
// and then sends ObjectKey as the product's image reference
type ImageUploadResponse struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
