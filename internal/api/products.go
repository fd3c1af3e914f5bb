package api

import (
	"context"
	"net/url"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// ProductService wraps the /products and /product-categories endpoints.
type ProductService struct {
	c *Client
}

func (s *ProductService) List(ctx context.Context, p *Pagination) ([]domain.Product, error) {
	return listJSON[domain.Product](ctx, s.c, "/products", p, nil)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return getJSON[*domain.Product](ctx, s.c, "/products/"+url.PathEscape(id), nil)
}

func (s *ProductService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	return postJSON[*domain.Product](ctx, s.c, "/products", req)
}

func (s *ProductService) Update(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.Product, error) {
	return putJSON[*domain.Product](ctx, s.c, "/products/"+url.PathEscape(id), req)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return deleteJSON(ctx, s.c, "/products/"+url.PathEscape(id))
}

func (s *ProductService) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return getJSON[*domain.Product](ctx, s.c, "/products/sku/"+url.PathEscape(sku), nil)
}

func (s *ProductService) FindByCategory(ctx context.Context, categoryID string, p *Pagination) ([]domain.Product, error) {
	return listJSON[domain.Product](ctx, s.c, "/products/category/"+url.PathEscape(categoryID), p, nil)
}

func (s *ProductService) LowStock(ctx context.Context, p *Pagination) ([]domain.Product, error) {
	return listJSON[domain.Product](ctx, s.c, "/products/low-stock", p, nil)
}

func (s *ProductService) Search(ctx context.Context, query string, p *Pagination) ([]domain.Product, error) {
	extra := url.Values{}
	extra.Set("query", query)
	return listJSON[domain.Product](ctx, s.c, "/products/search", p, extra)
}

// UpdateStock sets the absolute stock level of a product.
func (s *ProductService) UpdateStock(ctx context.Context, id string, stock int) (*domain.Product, error) {
	body := struct {
		Stock int `json:"stock"`
	}{Stock: stock}
	return patchJSON[*domain.Product](ctx, s.c, "/products/"+url.PathEscape(id)+"/stock", body)
}

func (s *ProductService) Categories(ctx context.Context) ([]domain.ProductCategory, error) {
	return getJSON[[]domain.ProductCategory](ctx, s.c, "/product-categories", nil)
}

func (s *ProductService) Category(ctx context.Context, id string) (*domain.ProductCategory, error) {
	return getJSON[*domain.ProductCategory](ctx, s.c, "/product-categories/"+url.PathEscape(id), nil)
}

func (s *ProductService) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.ProductCategory, error) {
	return postJSON[*domain.ProductCategory](ctx, s.c, "/product-categories", req)
}
