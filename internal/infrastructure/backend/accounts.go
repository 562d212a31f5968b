package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shopping"
)

// Credentials are forwarded verbatim to the backend sign-in endpoint
type Credentials struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session record. Rejected credentials
// fail with NOT_AUTHENTICATED.
func (c *Client) SignIn(ctx context.Context, userName, password string) (*identity.Session, error) {
	var s identity.Session
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signin",
		body:   Credentials{UserName: userName, Password: password},
	}, &s)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.Status {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				return nil, shared.WrapDomainError(shared.CodeNotAuthenticated, "Invalid username or password", err)
			}
		}
		return nil, remoteError(err, "sign-in failed")
	}
	return &s, nil
}

type wishlistRequest struct {
	CustomerID int64 `json:"customerId"`
	ProductID  int64 `json:"productId"`
}

type wishlistReply struct {
	WishlistID int64 `json:"wishlistId"`
}

// CreateWishlist registers a product on the customer's remote wishlist and
// returns the server-issued wishlist id
func (c *Client) CreateWishlist(ctx context.Context, token string, customerID, productID int64) (int64, error) {
	var reply wishlistReply
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/wishlists",
		body:   wishlistRequest{CustomerID: customerID, ProductID: productID},
		token:  token,
	}, &reply)
	if err != nil {
		return 0, remoteError(err, "failed to add to wishlist")
	}
	if reply.WishlistID <= 0 {
		return 0, shared.NewDomainError(shared.CodeRemoteError, "backend returned no wishlist id")
	}
	return reply.WishlistID, nil
}

// DeleteWishlist removes a remote wishlist entry
func (c *Client) DeleteWishlist(ctx context.Context, token string, wishlistID int64) error {
	_, err := c.do(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/wishlists/%d", wishlistID),
		token:  token,
	})
	return remoteError(err, "failed to remove from wishlist")
}

// LookupProduct fetches the public product record
func (c *Client) LookupProduct(ctx context.Context, productID int64) (*catalog.Resource, error) {
	kind, _ := catalog.Lookup(catalog.KindProducts)
	return c.Get(ctx, kind, productID, "")
}

// PlaceOrder submits a checkout
func (c *Client) PlaceOrder(ctx context.Context, token string, draft *shopping.OrderDraft) (*shopping.PlacedOrder, error) {
	var placed shopping.PlacedOrder
	err := c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/orders",
		body:   draft,
		token:  token,
	}, &placed)
	if err != nil {
		return nil, remoteError(err, "failed to place order")
	}
	if placed.TotalAmount.IsZero() {
		placed.TotalAmount = draft.TotalAmount
	}
	return &placed, nil
}
