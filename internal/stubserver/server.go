package stubserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sahdev/shopsync/internal/domain"
)

type Server struct {
	store     *Store
	jwtSecret []byte
	tokenTTL  time.Duration
	router    chi.Router
}

func NewServer(store *Store, jwtSecret string, tokenTTL time.Duration) *Server {
	s := &Server{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Get("/categories", s.handleCategories)
			r.Get("/category/{category}", s.handleProductsByCategory)
			r.Get("/search", s.handleSearchProducts)
			r.Get("/{id}", s.handleGetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", s.handleGetCart)
				r.Post("/add", s.handleAddToCart)
				r.Delete("/remove/{itemId}", s.handleRemoveCartItem)
			})

			r.Post("/orders/create", s.handleCreateOrder)
			r.Get("/orders/history", s.handleOrderHistory)

			r.Route("/admin", func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/orders", s.handleAdminOrders)
				r.Put("/orders/{id}", s.handleAdminSetOrderStatus)
				r.Post("/products", s.handleAdminCreateProduct)
				r.Delete("/products/{id}", s.handleAdminDeleteProduct)
			})
		})
	})

	s.router = r
}

// requestIDMiddleware tags every request so stub logs can be correlated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := s.store.Cart(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	cart, err := s.store.AddToCart(r.Context(), currentUser(r.Context()).ID, req.ProductID, req.Quantity)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "itemId must be a positive integer")
		return
	}

	if err := s.store.RemoveCartItem(r.Context(), currentUser(r.Context()).ID, itemID); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type createOrderRequest struct {
	ShippingAddress string               `json:"shippingAddress"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ShippingAddress == "" {
		respondError(w, http.StatusBadRequest, "missing_address", "shippingAddress is required")
		return
	}
	if !req.PaymentMethod.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_payment_method", "paymentMethod must be COD, CARD or UPI")
		return
	}

	order, err := s.store.CreateOrder(r.Context(), currentUser(r.Context()).ID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.OrdersByUser(currentUser(r.Context()).ID))
}

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.AllOrders())
}

type setOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (s *Server) handleAdminSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return
	}

	var req setOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !req.Status.Known() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	order, err := s.store.SetOrderStatus(orderID, req.Status)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.Products())
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := s.store.Product(id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Categories())
}

func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ProductsByCategory(chi.URLParam(r, "category"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.SearchProducts(r.URL.Query().Get("q")))
}

func (s *Server) handleAdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if product.Name == "" || product.Category == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "name and category are required")
		return
	}

	respondJSON(w, http.StatusOK, s.store.CreateProduct(product))
}

func (s *Server) handleAdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	if err := s.store.DeleteProduct(id); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, ErrUnknownCategory):
		respondError(w, http.StatusBadRequest, "unknown_category", "unknown category")
	case errors.Is(err, ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	default:
		log.Printf("stub store error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
