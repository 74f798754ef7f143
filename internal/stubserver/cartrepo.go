package stubserver

import (
	"context"
	"errors"
	"sync"

	"github.com/sahdev/shopsync/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists one cart per user. The stub ships two
// implementations: an in-memory map and a Redis-backed one.
type CartRepository interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Save(ctx context.Context, userID int64, cart *domain.Cart) error
	Delete(ctx context.Context, userID int64) error
}

type MemoryCartRepository struct {
	mu    sync.RWMutex
	carts map[int64]*domain.Cart
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[int64]*domain.Cart)}
}

func (r *MemoryCartRepository) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (r *MemoryCartRepository) Save(ctx context.Context, userID int64, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[userID] = copyCart(cart)
	return nil
}

func (r *MemoryCartRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

// copyCart keeps callers from mutating stored state through the returned
// pointer.
func copyCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	out.Items = make([]domain.CartItem, len(cart.Items))
	copy(out.Items, cart.Items)
	return &out
}
