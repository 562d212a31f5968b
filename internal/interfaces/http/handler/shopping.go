package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	appshopping "github.com/storefront/backend/internal/application/shopping"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shopping"
)

// IdempotencyKeyHeader lets clients retry checkout safely
const IdempotencyKeyHeader = "Idempotency-Key"

// ListsAPI is the cart and wishlist service
type ListsAPI interface {
	List(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) (*shopping.List, error)
	IsPresent(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind, productID int64) bool
	Add(ctx context.Context, cmd shopping.AddCommand) (*shopping.Entry, error)
	Remove(ctx context.Context, cmd shopping.RemoveCommand) error
	UpdateQuantity(ctx context.Context, owner shopping.OwnerKey, productID int64, qty int) error
	Clear(ctx context.Context, owner shopping.OwnerKey, kind shopping.Kind) error
}

// CheckoutAPI places orders
type CheckoutAPI interface {
	Checkout(ctx context.Context, p identity.Principal, req appshopping.CheckoutRequest) (*shopping.PlacedOrder, error)
}

// AddItemRequest puts a product on a list. Price is ignored for carts; the
// backend's current price is used.
type AddItemRequest struct {
	ProductID     int64  `json:"productId" binding:"required,gt=0"`
	Name          string `json:"name" binding:"max=255"`
	ImageURL      string `json:"imageUrl" binding:"max=1024"`
	Quantity      int    `json:"quantity" binding:"gte=0,lte=999"`
	SelectedColor string `json:"selectedColor" binding:"max=50"`
}

// UpdateQuantityRequest sets a cart line's quantity; 0 removes it
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0,lte=999"`
}

// CartResponse is a cart with its totals
type CartResponse struct {
	*shopping.List
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// PresenceResponse answers "is this product on my wishlist"
type PresenceResponse struct {
	ProductID int64 `json:"productId"`
	Present   bool  `json:"present"`
}

// ShoppingHandler serves carts, wishlists and checkout
type ShoppingHandler struct {
	BaseHandler
	lists    ListsAPI
	checkout CheckoutAPI
	sessions SessionAPI
	cookie   *SessionCookie
}

// NewShoppingHandler creates a new ShoppingHandler
func NewShoppingHandler(base BaseHandler, lists ListsAPI, checkout CheckoutAPI, sessions SessionAPI, cookie *SessionCookie) *ShoppingHandler {
	return &ShoppingHandler{BaseHandler: base, lists: lists, checkout: checkout, sessions: sessions, cookie: cookie}
}

// cartOwner resolves the cart owner. A guest with no browsing session has
// an empty cart; create gives them a session first.
func (h *ShoppingHandler) cartOwner(c *gin.Context, create bool) (shopping.OwnerKey, bool) {
	if create {
		if err := ensureGuestSession(c, h.sessions, h.cookie); err != nil {
			h.HandleError(c, err)
			return "", false
		}
	}
	owner, err := appshopping.OwnerFor(principal(c))
	if err != nil {
		if create {
			h.HandleError(c, err)
		}
		return "", false
	}
	return owner, true
}

// GetCart godoc
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=CartResponse}
// @Router       /cart [get]
func (h *ShoppingHandler) GetCart(c *gin.Context) {
	owner, ok := h.cartOwner(c, false)
	if !ok {
		h.Success(c, toCartResponse(shopping.NewList("", shopping.KindCart)))
		return
	}
	cart, err := h.lists.List(c.Request.Context(), owner, shopping.KindCart)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCartResponse(cart))
}

// AddCartItem godoc
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body AddItemRequest true "Item"
// @Success      201 {object} dto.Response{data=shopping.Entry}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *ShoppingHandler) AddCartItem(c *gin.Context) {
	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	owner, ok := h.cartOwner(c, true)
	if !ok {
		return
	}
	entry, err := h.lists.Add(c.Request.Context(), shopping.AddCommand{
		Owner: owner,
		Kind:  shopping.KindCart,
		Entry: req.entry(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// UpdateCartItem sets the quantity of a cart line
func (h *ShoppingHandler) UpdateCartItem(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		h.BadRequest(c, "Invalid product id")
		return
	}
	var req UpdateQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	owner, ok := h.cartOwner(c, true)
	if !ok {
		return
	}
	if err := h.lists.UpdateQuantity(c.Request.Context(), owner, productID, *req.Quantity); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RemoveCartItem takes a product out of the cart
func (h *ShoppingHandler) RemoveCartItem(c *gin.Context) {
	h.removeItem(c, shopping.KindCart)
}

// ClearCart empties the cart
func (h *ShoppingHandler) ClearCart(c *gin.Context) {
	owner, ok := h.cartOwner(c, false)
	if !ok {
		h.NoContent(c)
		return
	}
	if err := h.lists.Clear(c.Request.Context(), owner, shopping.KindCart); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetWishlist returns the signed-in customer's wishlist
func (h *ShoppingHandler) GetWishlist(c *gin.Context) {
	owner, ok := h.cartOwner(c, true)
	if !ok {
		return
	}
	list, err := h.lists.List(c.Request.Context(), owner, shopping.KindWishlist)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// AddWishlistItem godoc
// @Summary      Add to wishlist
// @Description  Creates the backend wishlist entry first; the local list changes only on success
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        request body AddItemRequest true "Item"
// @Success      201 {object} dto.Response{data=shopping.Entry}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /wishlist/items [post]
func (h *ShoppingHandler) AddWishlistItem(c *gin.Context) {
	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	p := principal(c)
	owner, ok := h.cartOwner(c, true)
	if !ok {
		return
	}
	customerID, _ := p.Session.CustomerID()
	entry, err := h.lists.Add(c.Request.Context(), shopping.AddCommand{
		Owner:       owner,
		Kind:        shopping.KindWishlist,
		Entry:       req.entry(),
		CustomerID:  customerID,
		AccessToken: p.AccessToken(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// RemoveWishlistItem deletes the backend entry, then the local one
func (h *ShoppingHandler) RemoveWishlistItem(c *gin.Context) {
	h.removeItem(c, shopping.KindWishlist)
}

// WishlistPresence reports whether a product is on the wishlist
func (h *ShoppingHandler) WishlistPresence(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		h.BadRequest(c, "Invalid product id")
		return
	}
	owner, ok := h.cartOwner(c, true)
	if !ok {
		return
	}
	h.Success(c, PresenceResponse{
		ProductID: productID,
		Present:   h.lists.IsPresent(c.Request.Context(), owner, shopping.KindWishlist, productID),
	})
}

func (h *ShoppingHandler) removeItem(c *gin.Context, kind shopping.Kind) {
	productID, ok := pathID(c, "productId")
	if !ok {
		h.BadRequest(c, "Invalid product id")
		return
	}
	owner, ok := h.cartOwner(c, true)
	if !ok {
		return
	}
	err := h.lists.Remove(c.Request.Context(), shopping.RemoveCommand{
		Owner:       owner,
		Kind:        kind,
		ProductID:   productID,
		AccessToken: principal(c).AccessToken(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Checkout godoc
// @Summary      Place order
// @Description  Submits the cart as an order; the cart is cleared only after the backend accepts it
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body shopping.CheckoutRequest true "Delivery and payment"
// @Success      201 {object} dto.Response{data=shopping.PlacedOrder}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout [post]
func (h *ShoppingHandler) Checkout(c *gin.Context) {
	var req appshopping.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	req.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)

	placed, err := h.checkout.Checkout(c.Request.Context(), principal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, placed)
}

func (r AddItemRequest) entry() shopping.Entry {
	return shopping.Entry{
		ProductID:     r.ProductID,
		Name:          r.Name,
		ImageURL:      r.ImageURL,
		Quantity:      r.Quantity,
		SelectedColor: r.SelectedColor,
	}
}

func toCartResponse(cart *shopping.List) CartResponse {
	return CartResponse{List: cart, ItemCount: cart.ItemCount(), Total: cart.Total()}
}
