package stubserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahdev/shopsync/internal/api"
	"github.com/sahdev/shopsync/internal/auth"
	"github.com/sahdev/shopsync/internal/domain"
)

// testEnv wires the real client against an in-process stub over HTTP, the
// same path the interactive client takes.
type testEnv struct {
	store   *Store
	session *auth.Session
	client  *api.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := NewStore(NewMemoryCartRepository())
	ts := httptest.NewServer(NewServer(store, "test-secret", time.Hour))
	t.Cleanup(ts.Close)

	session := auth.NewSession()
	return &testEnv{
		store:   store,
		session: session,
		client:  api.New(ts.URL, session),
	}
}

func (e *testEnv) registerAndLogin(t *testing.T, username string) {
	t.Helper()

	resp, err := e.client.Register(context.Background(), api.RegisterParams{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		FullName: "Test Shopper",
	})
	require.NoError(t, err)
	e.session.SetCredentials(resp.Token, &domain.User{
		Username: resp.Username,
		Email:    resp.Email,
		Role:     resp.Role,
	})
}

func (e *testEnv) loginAdmin(t *testing.T) {
	t.Helper()

	_, err := e.store.CreateUser("root", "root@example.com", "rootpw", "Root", domain.RoleAdmin)
	require.NoError(t, err)

	resp, err := e.client.Login(context.Background(), "root", "rootpw")
	require.NoError(t, err)
	e.session.SetCredentials(resp.Token, &domain.User{
		Username: resp.Username,
		Role:     resp.Role,
	})
}

func (e *testEnv) seedProduct(name string, price int64, stock int) *domain.Product {
	return e.store.CreateProduct(domain.Product{
		Name:          name,
		Price:         decimal.NewFromInt(price),
		StockQuantity: stock,
		Category:      "Phone",
		Brand:         "Acme",
	})
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.client.Register(context.Background(), api.RegisterParams{
		Username: "asha",
		Email:    "asha@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "asha", resp.Username)
	assert.Equal(t, domain.RoleUser, resp.Role)

	// a second registration for the same username is rejected
	_, err = env.client.Register(context.Background(), api.RegisterParams{
		Username: "asha",
		Email:    "other@example.com",
		Password: "secret123",
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "user_exists", apiErr.Code)

	_, err = env.client.Login(context.Background(), "asha", "wrong-password")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)

	login, err := env.client.Login(context.Background(), "asha", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.GetCart(context.Background())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestAddToCart_MergesLinesAndComputesTotal(t *testing.T) {
	env := newTestEnv(t)
	phone := env.seedProduct("Phone X", 500, 10)
	env.registerAndLogin(t, "asha")

	cart, err := env.client.AddToCart(context.Background(), phone.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// a second add for the same product merges into the existing line
	cart, err = env.client.AddToCart(context.Background(), phone.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(1500)),
		"expected total 1500, got %s", cart.TotalAmount)

	// line price is captured at add time and survives a catalog price change
	env.store.mu.Lock()
	env.store.products[phone.ID].Price = decimal.NewFromInt(9000)
	env.store.mu.Unlock()

	cart, err = env.client.GetCart(context.Background())
	require.NoError(t, err)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(500)))
}

func TestRemoveCartItem(t *testing.T) {
	env := newTestEnv(t)
	phone := env.seedProduct("Phone X", 500, 10)
	watch := env.seedProduct("Watch Y", 200, 10)
	env.registerAndLogin(t, "asha")

	_, err := env.client.AddToCart(context.Background(), phone.ID, 1)
	require.NoError(t, err)
	cart, err := env.client.AddToCart(context.Background(), watch.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	require.NoError(t, env.client.RemoveCartItem(context.Background(), cart.Items[0].ID))

	cart, err = env.client.GetCart(context.Background())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, watch.ID, cart.Items[0].Product.ID)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(200)))

	// removing an id that is no longer present is not an error
	require.NoError(t, env.client.RemoveCartItem(context.Background(), 99999))
}

func TestCreateOrder_ClearsCartAndDecrementsStock(t *testing.T) {
	env := newTestEnv(t)
	phone := env.seedProduct("Phone X", 500, 10)
	env.registerAndLogin(t, "asha")

	_, err := env.client.AddToCart(context.Background(), phone.ID, 3)
	require.NoError(t, err)

	order, err := env.client.CreateOrder(context.Background(), "12 MG Road", domain.PaymentUPI)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PaymentUPI, order.PaymentMethod)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(1500)))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	cart, err := env.client.GetCart(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	after, err := env.client.ProductByID(context.Background(), phone.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, after.StockQuantity)
}

func TestCreateOrder_EmptyCartRejected(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "asha")

	_, err := env.client.CreateOrder(context.Background(), "12 MG Road", domain.PaymentCOD)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "empty_cart", apiErr.Code)
}

func TestOrderHistory_OwnOrdersNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	phone := env.seedProduct("Phone X", 500, 10)
	env.registerAndLogin(t, "asha")

	for i := 0; i < 2; i++ {
		_, err := env.client.AddToCart(context.Background(), phone.ID, 1)
		require.NoError(t, err)
		_, err = env.client.CreateOrder(context.Background(), "12 MG Road", domain.PaymentCOD)
		require.NoError(t, err)
	}

	history, err := env.client.OrderHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].ID > history[1].ID, "newest order comes first")
}

func TestAdminEndpoints_ForbiddenForShopper(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "asha")

	_, err := env.client.AdminOrders(context.Background())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestAdminSetOrderStatus_AnyTransitionAccepted(t *testing.T) {
	env := newTestEnv(t)
	phone := env.seedProduct("Phone X", 500, 10)

	env.registerAndLogin(t, "asha")
	_, err := env.client.AddToCart(context.Background(), phone.ID, 1)
	require.NoError(t, err)
	placed, err := env.client.CreateOrder(context.Background(), "12 MG Road", domain.PaymentCard)
	require.NoError(t, err)

	env.loginAdmin(t)

	// straight to DELIVERED, then back to PENDING
	order, err := env.client.AdminSetOrderStatus(context.Background(), placed.ID, domain.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, order.Status)

	order, err = env.client.AdminSetOrderStatus(context.Background(), placed.ID, domain.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	all, err := env.client.AdminOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.OrderStatusPending, all[0].Status)

	_, err = env.client.AdminSetOrderStatus(context.Background(), 99999, domain.OrderStatusShipped)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestProductCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.seedProduct("Phone X", 500, 10)
	env.seedProduct("Phone Y", 700, 10)
	watch := env.store.CreateProduct(domain.Product{
		Name: "Watch Z", Price: decimal.NewFromInt(200), StockQuantity: 5,
		Category: "Watch", Brand: "Timely",
	})

	products, err := env.client.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)

	cats, err := env.client.Categories(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(Categories(), cats); diff != "" {
		t.Errorf("categories mismatch (-want +got):\n%s", diff)
	}

	byCat, err := env.client.ProductsByCategory(context.Background(), "Watch")
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, watch.ID, byCat[0].ID)

	_, err = env.client.ProductsByCategory(context.Background(), "Spaceships")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	// search matches name or brand, case-insensitively
	found, err := env.client.SearchProducts(context.Background(), "timely")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Watch Z", found[0].Name)
}

func TestAdminProductManagement(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin(t)

	created, err := env.client.AdminCreateProduct(context.Background(), domain.Product{
		Name:          "Cooler Max",
		Price:         decimal.NewFromInt(3500),
		StockQuantity: 4,
		Category:      "Cooler",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	require.NoError(t, env.client.AdminDeleteProduct(context.Background(), created.ID))

	_, err = env.client.ProductByID(context.Background(), created.ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestLogout_TokenDroppedMidSession(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "asha")

	_, err := env.client.GetCart(context.Background())
	require.NoError(t, err)

	env.session.Clear()

	_, err = env.client.GetCart(context.Background())
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode, "client reads the token at call time")
}

func TestSeed(t *testing.T) {
	store := NewStore(NewMemoryCartRepository())
	require.NoError(t, Seed(store, 10))

	assert.Len(t, store.Products(), 10)

	admin, err := store.Authenticate("admin", "admin123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	for _, p := range store.Products() {
		assert.NotEmpty(t, p.Name)
		assert.True(t, p.Price.IsPositive())
		assert.Contains(t, Categories(), p.Category)
	}

	assert.ErrorIs(t, Seed(store, 0), ErrUserExists,
		"re-seeding an already seeded store fails on the admin account")
}
