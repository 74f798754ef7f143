package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sahdev/shopsync/internal/domain"
)

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// GetCart fetches the authoritative cart for the current session.
func (c *Client) GetCart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddToCart submits an add mutation and returns the full post-mutation cart.
func (c *Client) AddToCart(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	req := addToCartRequest{ProductID: productID, Quantity: quantity}
	var cart domain.Cart
	if err := c.do(ctx, http.MethodPost, "/api/cart/add", req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveCartItem deletes one cart line. The response carries no entity; the
// caller must re-fetch the cart to observe the post-removal state.
func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/remove/%d", itemID), nil, nil)
}
