package stubserver

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/sahdev/shopsync/internal/domain"
)

// Seed fills the catalog with n fake products and creates a default admin
// account (admin / admin123) for the dev loop.
func Seed(store *Store, n int) error {
	if _, err := store.CreateUser("admin", "admin@example.com", "admin123", "Administrator", domain.RoleAdmin); err != nil {
		return fmt.Errorf("seed admin user failed: %w", err)
	}

	for i := 0; i < n; i++ {
		category := categories[gofakeit.Number(0, len(categories)-1)]
		store.CreateProduct(domain.Product{
			Name:          gofakeit.ProductName(),
			Description:   gofakeit.ProductDescription(),
			Price:         decimal.NewFromFloat(gofakeit.Price(199, 89999)).Round(2),
			StockQuantity: gofakeit.Number(5, 50),
			Category:      category,
			Brand:         gofakeit.Company(),
			ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%d/400", i+1),
		})
	}
	return nil
}
