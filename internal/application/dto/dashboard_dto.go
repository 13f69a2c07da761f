package dto

import "github.com/shopspring/decimal"

// PeriodSales total y cantidad de ventas de un período.
type PeriodSales struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// StoreDashboardResponse respuesta de GET /api/stores/:id/dashboard.
type StoreDashboardResponse struct {
	StoreID string `json:"store_id"`

	TodaySales PeriodSales `json:"today_sales"`
	MonthSales PeriodSales `json:"month_sales"`

	LowStockCount int                 `json:"low_stock_count"`
	LowStockItems []StockItemResponse `json:"low_stock_items"`

	// Parcelas abiertas con vencimiento hasta hoy
	DueInstallmentsCount  int             `json:"due_installments_count"`
	DueInstallmentsAmount decimal.Decimal `json:"due_installments_amount"`

	CustomersCount int `json:"customers_count"`

	// Top 5 productos del mes por cantidad vendida
	TopProducts []ProductSalesDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Março 2026"
}
