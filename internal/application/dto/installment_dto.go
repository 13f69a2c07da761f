package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInstallmentRequest body para POST /api/installments.
type CreateInstallmentRequest struct {
	SaleID     string          `json:"sale_id" validate:"required"`
	CustomerID string          `json:"customer_id" validate:"required"`
	Number     int             `json:"number" validate:"min=1"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date" validate:"required"`
	Notes      string          `json:"notes" validate:"max=500"`
}

// UpdateInstallmentRequest body para PUT /api/installments/:id.
type UpdateInstallmentRequest struct {
	Amount  *decimal.Decimal `json:"amount"`
	DueDate *time.Time       `json:"due_date"`
	Notes   *string          `json:"notes" validate:"omitempty,max=500"`
}

// PayInstallmentRequest body para PATCH /api/installments/:id/pay.
type PayInstallmentRequest struct {
	PaymentType string     `json:"payment_type" validate:"required,oneof=CASH CARD PIX"`
	PaidDate    *time.Time `json:"paid_date"`
	Notes       string     `json:"notes" validate:"max=500"`
}

// CancelInstallmentRequest body para PATCH /api/installments/:id/cancel.
type CancelInstallmentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// InstallmentFilter filtros de listado.
type InstallmentFilter struct {
	StoreID    string
	CustomerID string
	Status     string
	Overdue    bool
	StartDate  *time.Time
	EndDate    *time.Time
}

// InstallmentResponse parcela en respuestas.
type InstallmentResponse struct {
	ID          string           `json:"id"`
	SaleID      string           `json:"sale_id"`
	CustomerID  string           `json:"customer_id"`
	Number      int              `json:"number"`
	Amount      decimal.Decimal  `json:"amount"`
	DueDate     time.Time        `json:"due_date"`
	PaidDate    *time.Time       `json:"paid_date,omitempty"`
	Status      string           `json:"status"`
	PaymentType string           `json:"payment_type,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Customer    *CustomerSummary `json:"customer,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// InstallmentReportResponse totales por estado.
type InstallmentReportResponse struct {
	TotalInstallments int             `json:"total_installments"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidCount         int             `json:"paid_count"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	PendingCount      int             `json:"pending_count"`
	PendingAmount     decimal.Decimal `json:"pending_amount"`
	OverdueCount      int             `json:"overdue_count"`
	OverdueAmount     decimal.Decimal `json:"overdue_amount"`
	CancelledCount    int             `json:"cancelled_count"`
}

// OverdueSweepResponse resultado de PATCH /api/installments/update-overdue.
type OverdueSweepResponse struct {
	Updated int64 `json:"updated"`
}
