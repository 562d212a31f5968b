package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
)

// StorefrontAPI is the public catalog service
type StorefrontAPI interface {
	Products(ctx context.Context, q appcatalog.ProductQuery) (*appcatalog.ListResponse, error)
	Product(ctx context.Context, id int64) (*catalog.Resource, error)
	Brands(ctx context.Context) ([]catalog.Resource, error)
	Categories(ctx context.Context) ([]catalog.Resource, error)
	Search(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error)
	SearchCategories(ctx context.Context, q catalog.SearchQuery) ([]catalog.Resource, error)
}

// ListLinks are navigation URLs returned with every list page. Search is the
// base URL for a new search: page reset to 1, search text left for the client.
type ListLinks struct {
	catalog.Links
	Search string `json:"search"`
}

// ListPage is a list response with its navigation links
type ListPage struct {
	*appcatalog.ListResponse
	Links ListLinks `json:"links"`
}

func newListPage(c *gin.Context, page *appcatalog.ListResponse) ListPage {
	values := c.Request.URL.Query()
	base := c.Request.URL.Path
	return ListPage{
		ListResponse: page,
		Links: ListLinks{
			Links:  catalog.BuildLinks(base, values, page.PageParam, page.Paginated()),
			Search: base + "?" + catalog.ApplySearch(values, page.PageParam, "").Encode(),
		},
	}
}

// StorefrontHandler serves anonymous catalog browsing
type StorefrontHandler struct {
	BaseHandler
	storefront StorefrontAPI
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(base BaseHandler, storefront StorefrontAPI) *StorefrontHandler {
	return &StorefrontHandler{BaseHandler: base, storefront: storefront}
}

// ListProducts godoc
// @Summary      List products
// @Tags         storefront
// @Produce      json
// @Param        productpage query int false "Page (1-based)"
// @Param        category query int false "Category id"
// @Param        brand query int false "Brand id"
// @Param        search query string false "Search text"
// @Success      200 {object} dto.Response{data=ListPage}
// @Router       /products [get]
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	kind, _ := catalog.Lookup(catalog.KindProducts)
	page, err := h.storefront.Products(c.Request.Context(), appcatalog.ProductQuery{
		Page:       catalog.PageFromQuery(c.Request.URL.Query(), kind.PageParam),
		CategoryID: int64(queryInt(c, "category", 0)),
		BrandID:    int64(queryInt(c, "brand", 0)),
		Search:     c.Query(catalog.SearchParam),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newListPage(c, page))
}

// GetProduct returns one active product
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product id")
		return
	}
	product, err := h.storefront.Product(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListBrands returns every active brand
func (h *StorefrontHandler) ListBrands(c *gin.Context) {
	brands, err := h.storefront.Brands(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, brands)
}

// ListCategories returns every active category
func (h *StorefrontHandler) ListCategories(c *gin.Context) {
	categories, err := h.storefront.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Search godoc
// @Summary      Product autocomplete
// @Tags         storefront
// @Produce      json
// @Param        query query string true "Search text"
// @Param        limit query int false "Max results"
// @Param        featured query bool false "Featured products only"
// @Success      200 {object} dto.Response{data=[]catalog.Resource}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /search [get]
func (h *StorefrontHandler) Search(c *gin.Context) {
	results, err := h.storefront.Search(c.Request.Context(), searchQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// SearchCategories runs the category autocomplete
func (h *StorefrontHandler) SearchCategories(c *gin.Context) {
	results, err := h.storefront.SearchCategories(c.Request.Context(), searchQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

func searchQuery(c *gin.Context) catalog.SearchQuery {
	q := catalog.SearchQuery{
		Query: c.Query("query"),
		Limit: queryInt(c, "limit", 0),
	}
	if raw, ok := c.GetQuery("featured"); ok {
		if featured, err := strconv.ParseBool(raw); err == nil {
			q.Featured = &featured
		}
	}
	return q
}

