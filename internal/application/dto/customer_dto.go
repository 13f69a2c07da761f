package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	StoreID   string     `json:"store_id" validate:"required"`
	Name      string     `json:"name" validate:"required,min=1,max=200"`
	CPF       string     `json:"cpf" validate:"omitempty,min=11,max=14"`
	Phone     string     `json:"phone" validate:"max=30"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Address   string     `json:"address" validate:"max=300"`
	BirthDate *time.Time `json:"birth_date"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id (campos opcionales).
type UpdateCustomerRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1,max=200"`
	CPF       *string    `json:"cpf" validate:"omitempty,min=11,max=14"`
	Phone     *string    `json:"phone" validate:"omitempty,max=30"`
	Email     *string    `json:"email" validate:"omitempty,email"`
	Address   *string    `json:"address" validate:"omitempty,max=300"`
	BirthDate *time.Time `json:"birth_date"`
}

// CustomerResponse cliente en respuestas. Sales y PendingInstallments solo en el detalle.
type CustomerResponse struct {
	ID                  string                `json:"id"`
	StoreID             string                `json:"store_id"`
	Name                string                `json:"name"`
	CPF                 string                `json:"cpf,omitempty"`
	Phone               string                `json:"phone,omitempty"`
	Email               string                `json:"email,omitempty"`
	Address             string                `json:"address,omitempty"`
	BirthDate           *time.Time            `json:"birth_date,omitempty"`
	IsActive            bool                  `json:"is_active"`
	Store               *StoreSummary         `json:"store,omitempty"`
	Sales               []SaleResponse        `json:"sales,omitempty"`
	PendingInstallments []InstallmentResponse `json:"pending_installments,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// CustomerBalanceResponse saldo deudor del cliente.
type CustomerBalanceResponse struct {
	CustomerID          string          `json:"customer_id"`
	TotalDebt           decimal.Decimal `json:"total_debt"`     // PENDING + OVERDUE
	OverdueAmount       decimal.Decimal `json:"overdue_amount"` // abiertas con vencimiento pasado
	PaidAmount          decimal.Decimal `json:"paid_amount"`
	OpenInstallments    int             `json:"open_installments"`
	OverdueInstallments int             `json:"overdue_installments"`
}
