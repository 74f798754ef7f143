// Package stubserver is an in-process stand-in for the authoritative
// commerce service. It mirrors the real backend's observable semantics:
// totals are computed server-side, cart and order responses carry the full
// entity, and admin status updates are applied without transition checks.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/sahdev/shopsync/internal/domain"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnknownCategory    = errors.New("unknown category")
)

var categories = []string{
	"Fridge", "Watch", "Phone", "Laptops", "Clothes",
	"Tshirts", "Fan", "Cooler", "TV", "AC", "Bike", "Car", "Cycles",
}

// Categories returns the fixed category taxonomy.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

type userRecord struct {
	user         domain.User
	passwordHash []byte
}

// Store holds users, products and orders in memory; carts live behind a
// CartRepository so the storage backend can be swapped.
type Store struct {
	mu       sync.Mutex
	users    map[string]*userRecord // keyed by username
	products map[int64]*domain.Product
	orders   map[int64]*domain.Order
	carts    CartRepository

	nextUserID    int64
	nextProductID int64
	nextItemID    int64
	nextOrderID   int64
}

func NewStore(carts CartRepository) *Store {
	return &Store{
		users:    make(map[string]*userRecord),
		products: make(map[int64]*domain.Product),
		orders:   make(map[int64]*domain.Order),
		carts:    carts,
	}
}

func (s *Store) CreateUser(username, email, password, fullName, role string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return nil, ErrUserExists
	}
	for _, rec := range s.users {
		if rec.user.Email == email {
			return nil, ErrUserExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	s.nextUserID++
	user := domain.User{
		ID:       s.nextUserID,
		Username: username,
		Email:    email,
		FullName: fullName,
		Role:     role,
	}
	s.users[username] = &userRecord{user: user, passwordHash: hash}
	return &user, nil
}

func (s *Store) Authenticate(username, password string) (*domain.User, error) {
	s.mu.Lock()
	rec, ok := s.users[username]
	s.mu.Unlock()

	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	user := rec.user
	return &user, nil
}

func (s *Store) userByID(id int64) *domain.User {
	for _, rec := range s.users {
		if rec.user.ID == id {
			user := rec.user
			return &user
		}
	}
	return nil
}

func (s *Store) CreateProduct(p domain.Product) *domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	p.ID = s.nextProductID
	p.CreatedAt = time.Now()
	s.products[p.ID] = &p
	out := p
	return &out
}

func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) Product(id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	out := *p
	return &out, nil
}

func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productList(func(*domain.Product) bool { return true })
}

func (s *Store) ProductsByCategory(category string) ([]domain.Product, error) {
	known := false
	for _, c := range categories {
		if c == category {
			known = true
			break
		}
	}
	if !known {
		return nil, ErrUnknownCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productList(func(p *domain.Product) bool { return p.Category == category }), nil
}

func (s *Store) SearchProducts(query string) []domain.Product {
	q := strings.ToLower(query)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productList(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Brand), q)
	})
}

// productList must be called with the lock held.
func (s *Store) productList(keep func(*domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cart returns the user's cart, creating an empty one on first access.
func (s *Store) Cart(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		cart = &domain.Cart{ID: userID, Items: []domain.CartItem{}, TotalAmount: decimal.Zero}
		if err := s.carts.Save(ctx, userID, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddToCart merges the quantity into an existing line for the same product
// or appends a new line capturing the product's current price, then
// recomputes the total.
func (s *Store) AddToCart(ctx context.Context, userID, productID int64, quantity int) (*domain.Cart, error) {
	product, err := s.Product(productID)
	if err != nil {
		return nil, err
	}

	cart, err := s.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == productID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.mu.Lock()
		s.nextItemID++
		itemID := s.nextItemID
		s.mu.Unlock()

		cart.Items = append(cart.Items, domain.CartItem{
			ID:       itemID,
			Product:  *product,
			Quantity: quantity,
			Price:    product.Price,
		})
	}

	cart.TotalAmount = cartTotal(cart.Items)
	if err := s.carts.Save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveCartItem deletes the line if present. Removing an unknown item is
// not an error, matching the backend's delete-by-id behavior.
func (s *Store) RemoveCartItem(ctx context.Context, userID, itemID int64) error {
	cart, err := s.Cart(ctx, userID)
	if err != nil {
		return err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	cart.TotalAmount = cartTotal(cart.Items)
	return s.carts.Save(ctx, userID, cart)
}

// CreateOrder copies the cart's lines into a new PENDING order, decrements
// stock, and clears the cart.
func (s *Store) CreateOrder(ctx context.Context, userID int64, shippingAddress string, method domain.PaymentMethod) (*domain.Order, error) {
	cart, err := s.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	s.mu.Lock()
	s.nextOrderID++
	order := &domain.Order{
		ID:              s.nextOrderID,
		User:            s.userByID(userID),
		Items:           make([]domain.OrderItem, 0, len(cart.Items)),
		OrderDate:       time.Now(),
		TotalAmount:     cart.TotalAmount,
		Status:          domain.OrderStatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   method,
	}
	for _, item := range cart.Items {
		s.nextItemID++
		order.Items = append(order.Items, domain.OrderItem{
			ID:       s.nextItemID,
			Product:  item.Product,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
		if p, ok := s.products[item.Product.ID]; ok {
			p.StockQuantity -= item.Quantity
		}
	}
	s.orders[order.ID] = order
	out := copyOrder(order)
	s.mu.Unlock()

	empty := &domain.Cart{ID: cart.ID, Items: []domain.CartItem{}, TotalAmount: decimal.Zero}
	if err := s.carts.Save(ctx, userID, empty); err != nil {
		return nil, err
	}
	return out, nil
}

// OrdersByUser lists a shopper's orders, newest first.
func (s *Store) OrdersByUser(userID int64) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderList(func(o *domain.Order) bool {
		return o.User != nil && o.User.ID == userID
	})
}

// AllOrders lists every order, newest first.
func (s *Store) AllOrders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderList(func(*domain.Order) bool { return true })
}

// SetOrderStatus applies the requested status unconditionally. Any known
// status may follow any other; only unknown order IDs fail.
func (s *Store) SetOrderStatus(orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	order.Status = status
	return copyOrder(order), nil
}

// orderList must be called with the lock held.
func (s *Store) orderList(keep func(*domain.Order) bool) []domain.Order {
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, *copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func copyOrder(o *domain.Order) *domain.Order {
	out := *o
	out.Items = make([]domain.OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	return &out
}

func cartTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
