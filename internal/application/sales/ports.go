package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios de venta atados a ella.
// Si fn devuelve error se hace Rollback; ninguna escritura parcial queda visible.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		saleRepo repository.SaleRepository,
		installmentRepo repository.InstallmentRepository,
	) error) error
}

// ReceiptLine línea del comprobante ya resuelta.
type ReceiptLine struct {
	ProductName string
	Unit        string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// ReceiptData datos completos para imprimir el comprobante de una venta.
type ReceiptData struct {
	Sale         *entity.Sale
	Store        *entity.Store
	Company      *entity.Company // puede ser nil
	Customer     *entity.Customer
	Lines        []ReceiptLine
	Installments []*entity.Installment
}

// ReceiptGenerator puerto de salida para generar el PDF del comprobante.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
