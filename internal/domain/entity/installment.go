package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/domain"
)

// Estados de una parcela.
const (
	InstallmentPending   = "PENDING"
	InstallmentPaid      = "PAID"
	InstallmentOverdue   = "OVERDUE"
	InstallmentCancelled = "CANCELLED"
)

// Installment parcela de pago ligada a una venta y a un cliente.
type Installment struct {
	ID          string
	SaleID      string
	CustomerID  string
	Number      int
	Amount      decimal.Decimal
	DueDate     time.Time
	PaidDate    *time.Time
	Status      string
	PaymentType string // forma con la que se pagó (vacío si no pagada)
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOpen indica si la parcela todavía puede cobrarse (PENDING u OVERDUE).
func (i *Installment) IsOpen() bool {
	return i.Status == InstallmentPending || i.Status == InstallmentOverdue
}

// IsPastDue indica si la parcela está abierta y vencida respecto de now.
func (i *Installment) IsPastDue(now time.Time) bool {
	return i.IsOpen() && i.DueDate.Before(now)
}

// Pay marca la parcela como pagada. PAID y CANCELLED son terminales.
func (i *Installment) Pay(paymentType string, paidAt time.Time, notes string) error {
	if !i.IsOpen() {
		return fmt.Errorf("%w: parcela %s no puede pagarse", domain.ErrInvalidTransition, i.Status)
	}
	i.Status = InstallmentPaid
	i.PaymentType = paymentType
	i.PaidDate = &paidAt
	if notes != "" {
		i.Notes = notes
	}
	i.UpdatedAt = paidAt
	return nil
}

// Cancel cancela la parcela. Una parcela PAID o CANCELLED no se cancela.
func (i *Installment) Cancel(reason string, now time.Time) error {
	if !i.IsOpen() {
		return fmt.Errorf("%w: parcela %s no puede cancelarse", domain.ErrInvalidTransition, i.Status)
	}
	i.Status = InstallmentCancelled
	if reason != "" {
		i.Notes = AppendNote(i.Notes, "Cancelada: "+reason)
	}
	i.UpdatedAt = now
	return nil
}

// MarkOverdue pasa a OVERDUE una parcela PENDING vencida. Devuelve true si cambió.
func (i *Installment) MarkOverdue(now time.Time) bool {
	if i.Status != InstallmentPending || !i.DueDate.Before(now) {
		return false
	}
	i.Status = InstallmentOverdue
	i.UpdatedAt = now
	return true
}

// AppendNote agrega una línea a las notas existentes.
func AppendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}
