package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest body para POST /api/sales.
// Total es opcional; si se informa debe coincidir con la suma de las líneas menos el descuento.
type CreateSaleRequest struct {
	StoreID      string                   `json:"store_id" validate:"required"`
	CustomerID   string                   `json:"customer_id"`
	UserID       string                   `json:"user_id"`
	PaymentType  string                   `json:"payment_type" validate:"required,oneof=CASH CARD PIX INSTALLMENTS FIADO"`
	Total        *decimal.Decimal         `json:"total"`
	Discount     decimal.Decimal          `json:"discount"`
	Notes        string                   `json:"notes" validate:"max=1000"`
	Items        []SaleItemRequest        `json:"items" validate:"required,min=1,dive"`
	Installments []InstallmentPlanRequest `json:"installments" validate:"dive"`
}

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required"`
	StockItemID string           `json:"stock_item_id" validate:"required"`
	Quantity    int              `json:"quantity" validate:"min=1"`
	Price       decimal.Decimal  `json:"price"`
	Total       *decimal.Decimal `json:"total"`
}

// InstallmentPlanRequest parcela a crear junto con la venta.
type InstallmentPlanRequest struct {
	Number        int             `json:"number" validate:"min=1"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date" validate:"required"`
	IsDownPayment bool            `json:"is_down_payment"`
	IsPaid        bool            `json:"is_paid"`
}

// CancelSaleRequest body para PATCH /api/sales/:id/cancel.
type CancelSaleRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// SaleFilter filtros de listado y reporte de ventas.
type SaleFilter struct {
	StoreID     string
	CustomerID  string
	PaymentType string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
}

// SaleItemResponse línea de venta con su producto.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	StockItemID string          `json:"stock_item_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Product     *ProductSummary `json:"product,omitempty"`
}

// SaleResponse venta hidratada (líneas, cliente y parcelas).
type SaleResponse struct {
	ID           string                `json:"id"`
	StoreID      string                `json:"store_id"`
	UserID       string                `json:"user_id,omitempty"`
	CustomerID   string                `json:"customer_id,omitempty"`
	Total        decimal.Decimal       `json:"total"`
	Discount     decimal.Decimal       `json:"discount"`
	PaymentType  string                `json:"payment_type"`
	Status       string                `json:"status"`
	Notes        string                `json:"notes,omitempty"`
	Items        []SaleItemResponse    `json:"items"`
	Customer     *CustomerSummary      `json:"customer,omitempty"`
	Installments []InstallmentResponse `json:"installments,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// PaymentBreakdown totales de una forma de pago.
type PaymentBreakdown struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ProductSalesDTO producto en rankings de ventas.
type ProductSalesDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReportResponse resumen de ventas no canceladas en el período.
type SalesReportResponse struct {
	TotalSales           int                         `json:"total_sales"`
	TotalRevenue         decimal.Decimal             `json:"total_revenue"`
	TotalDiscount        decimal.Decimal             `json:"total_discount"`
	AverageTicket        decimal.Decimal             `json:"average_ticket"`
	PaymentTypeBreakdown map[string]PaymentBreakdown `json:"payment_type_breakdown"`
	TopProducts          []ProductSalesDTO           `json:"top_products"`
}
