// Package checkout turns the current cart into an order.
package checkout

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/sahdev/shopsync/internal/api"
	"github.com/sahdev/shopsync/internal/domain"
)

type OrderAPI interface {
	CreateOrder(ctx context.Context, shippingAddress string, method domain.PaymentMethod) (*domain.Order, error)
}

// CartSource is the cart store the orchestrator reads from and reloads.
type CartSource interface {
	Snapshot() *domain.Cart
	Load(ctx context.Context) error
}

type Gate interface {
	Authenticated() bool
}

var (
	ErrEmptyAddress         = errors.New("shipping address is required")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrEmptyCart            = errors.New("cart is empty")
)

type Orchestrator struct {
	api  OrderAPI
	cart CartSource
	gate Gate
}

func New(api OrderAPI, cart CartSource, gate Gate) *Orchestrator {
	return &Orchestrator{api: api, cart: cart, gate: gate}
}

// Checkout submits an order for the shopper's current server-side cart. Line
// items and the total are not resubmitted; the server derives them. All
// validation failures short-circuit before any network call. On success the
// cart is reloaded (expected empty afterwards) and the created order is
// returned so the caller can navigate to the order view. On failure the cart
// and cache stay in their pre-checkout state, allowing a retry.
func (o *Orchestrator) Checkout(ctx context.Context, shippingAddress string, method domain.PaymentMethod) (*domain.Order, error) {
	if !o.gate.Authenticated() {
		return nil, api.ErrUnauthenticated
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, ErrEmptyAddress
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if o.cart.Snapshot().Empty() {
		return nil, ErrEmptyCart
	}

	order, err := o.api.CreateOrder(ctx, shippingAddress, method)
	if err != nil {
		log.Printf("order create error: %v", err)
		return nil, err
	}

	if err := o.cart.Load(ctx); err != nil {
		log.Printf("cart reload after checkout failed: %v", err)
	}
	return order, nil
}
