package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest body para POST /api/stock.
type CreateStockItemRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	StoreID       string          `json:"store_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"min=0"`
	MinQuantity   int             `json:"min_quantity" validate:"min=0"`
	MaxQuantity   *int            `json:"max_quantity" validate:"omitempty,min=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// UpdateStockItemRequest body para PUT /api/stock/:id (campos opcionales).
type UpdateStockItemRequest struct {
	Quantity      *int             `json:"quantity" validate:"omitempty,min=0"`
	MinQuantity   *int             `json:"min_quantity" validate:"omitempty,min=0"`
	MaxQuantity   *int             `json:"max_quantity" validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
}

// AdjustQuantityRequest body para PATCH /api/stock/:id/quantity.
type AdjustQuantityRequest struct {
	Quantity  int    `json:"quantity" validate:"min=0"`
	Operation string `json:"operation" validate:"required,oneof=set add subtract"`
}

// StockItemResponse item de stock con su producto.
type StockItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	StoreID       string          `json:"store_id"`
	Quantity      int             `json:"quantity"`
	MinQuantity   int             `json:"min_quantity"`
	MaxQuantity   *int            `json:"max_quantity,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	IsActive      bool            `json:"is_active"`
	IsLow         bool            `json:"is_low"`
	Product       *ProductSummary `json:"product,omitempty"`
	Store         *StoreSummary   `json:"store,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockReportResponse resumen valorizado del stock de una loja.
type StockReportResponse struct {
	StoreID         string          `json:"store_id"`
	TotalItems      int             `json:"total_items"`
	TotalQuantity   int             `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`      // purchase_price * quantity
	TotalSaleValue  decimal.Decimal `json:"total_sale_value"` // sale_price * quantity
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

// ReplenishmentSuggestion sugerencia de reposición para un item bajo el mínimo.
type ReplenishmentSuggestion struct {
	StockItemID         string          `json:"stock_item_id"`
	ProductID           string          `json:"product_id"`
	ProductName         string          `json:"product_name"`
	CurrentQuantity     int             `json:"current_quantity"`
	MinQuantity         int             `json:"min_quantity"`
	TargetQuantity      int             `json:"target_quantity"`
	SuggestedOrderQty   int             `json:"suggested_order_qty"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days int             `json:"units_sold_last_90_days"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
