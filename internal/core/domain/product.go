package domain

import "time"

// ProductCategory groups products into a hierarchy.
type ProductCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ParentID    string    `json:"parentId,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Product is a sellable or stockable item.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode,omitempty"`
	Price       float64         `json:"price"`
	Cost        float64         `json:"cost"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	MaxStock    int             `json:"maxStock,omitempty"`
	Category    ProductCategory `json:"category"`
	Brand       string          `json:"brand,omitempty"`
	Supplier    string          `json:"supplier,omitempty"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt,omitempty"`
}

// LowStock reports whether the product is at or below its minimum stock level.
func (p *Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// CreateProductRequest is the payload for POST /products.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	SKU         string  `json:"sku" validate:"required"`
	Barcode     string  `json:"barcode,omitempty"`
	Price       float64 `json:"price" validate:"gte=0"`
	Cost        float64 `json:"cost" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	MinStock    int     `json:"minStock" validate:"gte=0"`
	MaxStock    int     `json:"maxStock,omitempty"`
	CategoryID  string  `json:"categoryId" validate:"required"`
	Brand       string  `json:"brand,omitempty"`
	SupplierID  string  `json:"supplierId,omitempty"`
}

// UpdateProductRequest is a partial update; nil fields are left unchanged.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Barcode     *string  `json:"barcode,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Cost        *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	MinStock    *int     `json:"minStock,omitempty" validate:"omitempty,gte=0"`
	MaxStock    *int     `json:"maxStock,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	SupplierID  *string  `json:"supplierId,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

// CreateCategoryRequest is the payload for POST /product-categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
}
