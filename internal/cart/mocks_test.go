package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sahdev/shopsync/internal/domain"
)

// mockAPI implements API with canned responses and call counters.
type mockAPI struct {
	getCalls    int
	addCalls    int
	removeCalls int

	getCart *domain.Cart
	getErr  error

	addCart *domain.Cart
	addErr  error

	removeErr error
}

func (m *mockAPI) GetCart(ctx context.Context) (*domain.Cart, error) {
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getCart, nil
}

func (m *mockAPI) AddToCart(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	m.addCalls++
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.addCart, nil
}

func (m *mockAPI) RemoveCartItem(ctx context.Context, itemID int64) error {
	m.removeCalls++
	return m.removeErr
}

type fakeGate struct {
	authed bool
}

func (g *fakeGate) Authenticated() bool { return g.authed }

func cartWith(items ...domain.CartItem) *domain.Cart {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return &domain.Cart{ID: 1, Items: items, TotalAmount: total}
}

func item(id, productID int64, quantity int, price int64) domain.CartItem {
	return domain.CartItem{
		ID:       id,
		Product:  domain.Product{ID: productID, Name: "product", Price: decimal.NewFromInt(price)},
		Quantity: quantity,
		Price:    decimal.NewFromInt(price),
	}
}
