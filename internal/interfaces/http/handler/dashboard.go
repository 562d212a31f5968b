package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// DashboardAPI is the staff back-office service
type DashboardAPI interface {
	Overview(ctx context.Context, p identity.Principal) (*appcatalog.OverviewResponse, error)
	ListActive(ctx context.Context, p identity.Principal, req appcatalog.ListRequest) (*appcatalog.ListResponse, error)
	ListTrash(ctx context.Context, p identity.Principal, req appcatalog.ListRequest) (*appcatalog.ListResponse, error)
	Get(ctx context.Context, p identity.Principal, kind string, id int64) (*catalog.Resource, error)
	Create(ctx context.Context, p identity.Principal, req appcatalog.WriteRequest) (*catalog.Resource, error)
	Update(ctx context.Context, p identity.Principal, req appcatalog.WriteRequest) (*catalog.Resource, error)
	SetActive(ctx context.Context, p identity.Principal, kind string, id int64, active bool) error
	SoftDelete(ctx context.Context, p identity.Principal, kind string, id int64) error
	HardDelete(ctx context.Context, p identity.Principal, kind string, id int64) error
	Restore(ctx context.Context, p identity.Principal, kind string, id int64) error
}

// StatusRequest toggles an item's active flag
type StatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// DashboardHandler serves the collection screens of the dashboard
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardAPI
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(base BaseHandler, dashboard DashboardAPI) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, dashboard: dashboard}
}

// Overview godoc
// @Summary      Dashboard overview
// @Description  Active and trashbin counts of every collection
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=catalog.OverviewResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboard.Overview(c.Request.Context(), principal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}

// List godoc
// @Summary      List a collection
// @Description  Active items of one collection. The page parameter is named after the kind, e.g. productpage.
// @Tags         dashboard
// @Produce      json
// @Param        kind path string true "Collection" Enums(products, brands, categories, customers, employees, orders)
// @Param        search query string false "Search text"
// @Success      200 {object} dto.Response{data=ListPage}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /dashboard/{kind} [get]
func (h *DashboardHandler) List(c *gin.Context) {
	h.list(c, h.dashboard.ListActive)
}

// Trash lists the trashbin of one collection
func (h *DashboardHandler) Trash(c *gin.Context) {
	h.list(c, h.dashboard.ListTrash)
}

func (h *DashboardHandler) list(c *gin.Context, fetch func(context.Context, identity.Principal, appcatalog.ListRequest) (*appcatalog.ListResponse, error)) {
	req := appcatalog.ListRequest{
		Kind:   c.Param("kind"),
		Page:   1,
		Search: c.Query(catalog.SearchParam),
	}
	if spec, err := catalog.ParseKind(req.Kind); err == nil {
		req.Page = catalog.PageFromQuery(c.Request.URL.Query(), spec.PageParam)
	}
	page, err := fetch(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newListPage(c, page))
}

// Get returns one item of any status
func (h *DashboardHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid id")
		return
	}
	item, err := h.dashboard.Get(c.Request.Context(), principal(c), c.Param("kind"), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @Summary      Create an item
// @Description  The body is forwarded to the backend as-is
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Param        kind path string true "Collection"
// @Success      201 {object} dto.Response{data=catalog.Resource}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /dashboard/{kind} [post]
func (h *DashboardHandler) Create(c *gin.Context) {
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	item, err := h.dashboard.Create(c.Request.Context(), principal(c), appcatalog.WriteRequest{
		Kind: c.Param("kind"),
		Body: body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update replaces an item's editable fields
func (h *DashboardHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid id")
		return
	}
	body, ok := h.rawBody(c)
	if !ok {
		return
	}
	item, err := h.dashboard.Update(c.Request.Context(), principal(c), appcatalog.WriteRequest{
		Kind: c.Param("kind"),
		ID:   id,
		Body: body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// SetStatus activates or deactivates an item
func (h *DashboardHandler) SetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid id")
		return
	}
	var req StatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.dashboard.SetActive(c.Request.Context(), principal(c), c.Param("kind"), id, *req.Active); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete moves an item to the trashbin
func (h *DashboardHandler) Delete(c *gin.Context) {
	h.mutate(c, h.dashboard.SoftDelete)
}

// Purge godoc
// @Summary      Delete permanently
// @Description  Managers only
// @Tags         dashboard
// @Param        kind path string true "Collection"
// @Param        id path int true "Item id"
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /dashboard/{kind}/{id}/hard [delete]
func (h *DashboardHandler) Purge(c *gin.Context) {
	h.mutate(c, h.dashboard.HardDelete)
}

// Restore brings an item back from the trashbin. Managers only.
func (h *DashboardHandler) Restore(c *gin.Context) {
	h.mutate(c, h.dashboard.Restore)
}

func (h *DashboardHandler) mutate(c *gin.Context, op func(context.Context, identity.Principal, string, int64) error) {
	id, ok := pathID(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid id")
		return
	}
	if err := op(c.Request.Context(), principal(c), c.Param("kind"), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *DashboardHandler) rawBody(c *gin.Context) (json.RawMessage, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, dto.ErrCodeRequestTooLarge, "Request body too large")
		return nil, false
	}
	if !json.Valid(body) {
		h.BadRequest(c, "Request body must be valid JSON")
		return nil, false
	}
	return body, true
}
