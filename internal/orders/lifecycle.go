// Package orders drives an order's fulfillment status through the admin
// surface and keeps the admin's order list.
package orders

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/sahdev/shopsync/internal/domain"
)

type AdminAPI interface {
	AdminOrders(ctx context.Context) ([]domain.Order, error)
	AdminSetOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error)
}

var ErrUnknownStatus = errors.New("unknown order status")

// Lifecycle caches the admin order list and mutates order status. The
// requested status is sent unconditionally: there is no client-side
// transition-legality check, so DELIVERED back to PENDING goes out exactly
// like any other change. The server owns legality.
type Lifecycle struct {
	api AdminAPI

	mu     sync.RWMutex
	orders []domain.Order
}

func NewLifecycle(api AdminAPI) *Lifecycle {
	return &Lifecycle{api: api}
}

// Refresh replaces the cached list with the server's. On failure the prior
// list is kept.
func (l *Lifecycle) Refresh(ctx context.Context) error {
	orders, err := l.api.AdminOrders(ctx)
	if err != nil {
		log.Printf("admin orders refresh error: %v", err)
		return err
	}

	l.mu.Lock()
	l.orders = orders
	l.mu.Unlock()
	return nil
}

// Orders returns the last fetched list.
func (l *Lifecycle) Orders() []domain.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Order, len(l.orders))
	copy(out, l.orders)
	return out
}

// SetStatus requests the given status for an order and, on success,
// refreshes the list so the displayed status reflects the server's view. On
// failure the displayed status stays unchanged until the next refresh.
func (l *Lifecycle) SetStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	if !status.Known() {
		return ErrUnknownStatus
	}

	if _, err := l.api.AdminSetOrderStatus(ctx, orderID, status); err != nil {
		log.Printf("order %d status update error: %v", orderID, err)
		return err
	}
	return l.Refresh(ctx)
}
