package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sahdev/shopsync/internal/domain"
)

type createOrderRequest struct {
	ShippingAddress string               `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
}

type setOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// CreateOrder places an order from the shopper's current server-side cart.
// Line items and the total are derived server-side, not resubmitted here.
func (c *Client) CreateOrder(ctx context.Context, shippingAddress string, method domain.PaymentMethod) (*domain.Order, error) {
	req := createOrderRequest{ShippingAddress: shippingAddress, PaymentMethod: method}
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/create", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderHistory lists the current shopper's orders, newest first.
func (c *Client) OrderHistory(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/history", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminOrders lists every order in the system. Admin role required.
func (c *Client) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminSetOrderStatus sends the requested status as-is; transition legality
// is the server's concern.
func (c *Client) AdminSetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	req := setOrderStatusRequest{Status: status}
	var order domain.Order
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/orders/%d", orderID), req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
