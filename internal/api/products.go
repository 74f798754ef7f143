package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sahdev/shopsync/internal/domain"
)

// Products lists the whole catalog. No auth required.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/api/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/api/products/category/" + url.PathEscape(category)
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/api/products/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AdminCreateProduct adds a catalog entry. Admin role required.
func (c *Client) AdminCreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/api/admin/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdminDeleteProduct removes a catalog entry. Admin role required.
func (c *Client) AdminDeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", id), nil, nil)
}
