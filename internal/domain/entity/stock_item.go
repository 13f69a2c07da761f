package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem cantidad de un producto en una loja, con umbrales y precios.
// Único por (ProductID, StoreID).
type StockItem struct {
	ID            string
	ProductID     string
	StoreID       string
	Quantity      int
	MinQuantity   int
	MaxQuantity   *int // nil = sin máximo
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLow indica si la cantidad está en o por debajo del mínimo.
func (s *StockItem) IsLow() bool {
	return s.Quantity <= s.MinQuantity
}
