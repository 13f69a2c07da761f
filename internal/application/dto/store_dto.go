package dto

import "time"

// CreateStoreRequest entrada para crear una loja.
type CreateStoreRequest struct {
	CompanyID string `json:"company_id" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Address   string `json:"address" validate:"max=300"`
	Phone     string `json:"phone" validate:"max=30"`
	Email     string `json:"email" validate:"omitempty,email"`
}

// UpdateStoreRequest entrada para actualizar una loja (campos opcionales).
type UpdateStoreRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address  *string `json:"address" validate:"omitempty,max=300"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active"`
}

// StoreCountsResponse conteos de registros de la loja.
type StoreCountsResponse struct {
	StockItems int `json:"stock_items"`
	Customers  int `json:"customers"`
	Sales      int `json:"sales"`
	Users      int `json:"users"`
}

// StoreResponse salida de una loja.
type StoreResponse struct {
	ID        string               `json:"id"`
	CompanyID string               `json:"company_id"`
	Name      string               `json:"name"`
	Address   string               `json:"address"`
	Phone     string               `json:"phone"`
	Email     string               `json:"email"`
	IsActive  bool                 `json:"is_active"`
	Company   *CompanySummary      `json:"company,omitempty"`
	Counts    *StoreCountsResponse `json:"counts,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}
