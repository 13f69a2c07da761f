package dto

import "github.com/jhoicas/varejo-api/internal/domain"

// APIResponse sobre de éxito: {"success": true, "data": ..., "message": ...}.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool                `json:"success"`
	Code    string              `json:"code"`
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

// CompanySummary referencia corta a una empresa.
type CompanySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

// StoreSummary referencia corta a una loja.
type StoreSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductSummary referencia corta a un producto.
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Barcode  string `json:"barcode,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Category string `json:"category,omitempty"`
	Unit     string `json:"unit"`
}

// CustomerSummary referencia corta a un cliente.
type CustomerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CPF   string `json:"cpf,omitempty"`
	Phone string `json:"phone,omitempty"`
}
