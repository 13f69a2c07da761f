package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formas de pago.
const (
	PaymentCash         = "CASH"
	PaymentCard         = "CARD"
	PaymentPix          = "PIX"
	PaymentInstallments = "INSTALLMENTS"
	PaymentFiado        = "FIADO"
)

// Estados de una venta.
const (
	SaleStatusPending   = "PENDING"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
	SaleStatusReturned  = "RETURNED"
)

// Sale cabecera de una venta.
type Sale struct {
	ID          string
	StoreID     string
	UserID      string // vacío = sin operador
	CustomerID  string // vacío = consumidor final
	Total       decimal.Decimal
	Discount    decimal.Decimal
	PaymentType string
	Status      string
	Notes       string
	Items       []SaleItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SaleItem línea de una venta.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	StockItemID string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// IsValidPaymentType indica si p es una forma de pago conocida.
func IsValidPaymentType(p string) bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentPix, PaymentInstallments, PaymentFiado:
		return true
	}
	return false
}

// RequiresCustomer indica si la forma de pago exige cliente identificado.
func RequiresCustomer(p string) bool {
	return p == PaymentFiado || p == PaymentInstallments
}
