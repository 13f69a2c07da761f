package dto

import "time"

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Brand       string `json:"brand" validate:"max=100"`
	Category    string `json:"category" validate:"max=100"`
	Barcode     string `json:"barcode" validate:"max=50"`
	Unit        string `json:"unit" validate:"max=10"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Brand       *string `json:"brand" validate:"omitempty,max=100"`
	Category    *string `json:"category" validate:"omitempty,max=100"`
	Barcode     *string `json:"barcode" validate:"omitempty,max=50"`
	Unit        *string `json:"unit" validate:"omitempty,min=1,max=10"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Brand       string              `json:"brand"`
	Category    string              `json:"category"`
	Barcode     string              `json:"barcode,omitempty"`
	Unit        string              `json:"unit"`
	IsActive    bool                `json:"is_active"`
	StockItems  []StockItemResponse `json:"stock_items,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
