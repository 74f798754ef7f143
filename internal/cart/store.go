// Package cart owns the client-side cart cache. The cache is write-through:
// it only ever holds state the commerce service returned, never a locally
// computed guess. Displayed state therefore lags one round trip behind the
// user's action, in exchange for never showing an incorrect total.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sahdev/shopsync/internal/api"
	"github.com/sahdev/shopsync/internal/domain"
)

// API is the slice of the commerce client the store needs.
type API interface {
	GetCart(ctx context.Context) (*domain.Cart, error)
	AddToCart(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) error
}

// Gate reports whether a session is active.
type Gate interface {
	Authenticated() bool
}

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Store mediates every cart mutation and reconciles the cache with server
// responses. Mutations are not serialized against each other: two in-flight
// requests race and the cache reflects whichever response resolves last.
// Concurrent loads are collapsed through singleflight; the mutex below only
// protects the snapshot pointer and subscriber map, not whole operations.
type Store struct {
	api  API
	gate Gate
	sfg  singleflight.Group

	mu       sync.RWMutex
	snapshot *domain.Cart
	subs     map[int]func(*domain.Cart)
	nextSub  int
}

func NewStore(api API, gate Gate) *Store {
	return &Store{
		api:  api,
		gate: gate,
		subs: make(map[int]func(*domain.Cart)),
	}
}

// Load replaces the cache wholesale with the server's cart, or sets it to
// absent for an anonymous session. On failure the prior cache is kept.
func (s *Store) Load(ctx context.Context) error {
	if !s.gate.Authenticated() {
		s.replace(nil)
		return nil
	}

	v, err, _ := s.sfg.Do("load", func() (interface{}, error) {
		return s.api.GetCart(ctx)
	})
	if err != nil {
		log.Printf("cart load error: %v", err)
		return err
	}

	s.replace(v.(*domain.Cart))
	return nil
}

// Add submits an add mutation and, on success, installs the server's
// returned cart. Without a session it fails fast: no network call is made.
func (s *Store) Add(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if !s.gate.Authenticated() {
		return api.ErrUnauthenticated
	}

	cart, err := s.api.AddToCart(ctx, productID, quantity)
	if err != nil {
		log.Printf("cart add error: %v", err)
		return err
	}

	s.replace(cart)
	return nil
}

// Remove is two-phase: the delete request first, then a full reload to pick
// up the post-removal cart. Until the reload resolves the cache still shows
// the removed item. A failed delete leaves the cache untouched.
func (s *Store) Remove(ctx context.Context, itemID int64) error {
	if err := s.api.RemoveCartItem(ctx, itemID); err != nil {
		log.Printf("cart remove error: %v", err)
		return err
	}
	return s.Load(ctx)
}

// Snapshot returns the current cart, or nil when absent. Never blocks on
// network activity. Callers must treat the returned cart as immutable.
func (s *Store) Snapshot() *domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// HandleAuthChange is wired to the auth session's subscription feed: a login
// loads the cart, a logout discards it.
func (s *Store) HandleAuthChange(ctx context.Context, authenticated bool) {
	if !authenticated {
		s.replace(nil)
		return
	}
	if err := s.Load(ctx); err != nil {
		log.Printf("cart load after login failed: %v", err)
	}
}

// Subscribe registers fn to run after every cache replacement.
func (s *Store) Subscribe(fn func(*domain.Cart)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) replace(cart *domain.Cart) {
	s.mu.Lock()
	s.snapshot = cart
	fns := make([]func(*domain.Cart), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(cart)
	}
}
