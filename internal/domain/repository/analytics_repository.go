package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProductSalesResult agregado de ventas de un producto en un período.
type ProductSalesResult struct {
	ProductID   string
	ProductName string
	Quantity    int
	Revenue     decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard de la loja.
// Las ventas CANCELLED no cuentan.
type AnalyticsRepository interface {
	// SalesSummary suma total y cantidad de ventas en [from, to).
	SalesSummary(ctx context.Context, storeID string, from, to time.Time) (decimal.Decimal, int, error)
	// TopProducts productos más vendidos por cantidad en [from, to).
	TopProducts(ctx context.Context, storeID string, from, to time.Time, limit int) ([]ProductSalesResult, error)
	// CountActiveCustomers clientes activos de la loja.
	CountActiveCustomers(ctx context.Context, storeID string) (int, error)
}
