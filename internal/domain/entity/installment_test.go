package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// ─── Helpers de test ──────────────────────────────────────────────────────────

func newInstallment(status string, due time.Time) *entity.Installment {
	return &entity.Installment{
		ID:      "inst-1",
		SaleID:  "sale-1",
		Number:  1,
		Amount:  decimal.NewFromInt(100),
		DueDate: due,
		Status:  status,
	}
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// ─── Pay ──────────────────────────────────────────────────────────────────────

func TestInstallmentPay_DesdePendingYOverdue(t *testing.T) {
	for _, st := range []string{entity.InstallmentPending, entity.InstallmentOverdue} {
		inst := newInstallment(st, now.AddDate(0, 0, -1))
		require.NoError(t, inst.Pay(entity.PaymentPix, now, "pago en caja"))
		assert.Equal(t, entity.InstallmentPaid, inst.Status)
		assert.Equal(t, entity.PaymentPix, inst.PaymentType)
		require.NotNil(t, inst.PaidDate)
		assert.True(t, inst.PaidDate.Equal(now))
		assert.Equal(t, "pago en caja", inst.Notes)
	}
}

func TestInstallmentPay_RechazaTerminales(t *testing.T) {
	for _, st := range []string{entity.InstallmentPaid, entity.InstallmentCancelled} {
		inst := newInstallment(st, now)
		err := inst.Pay(entity.PaymentCash, now, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pagar una parcela %s debe rechazarse", st)
		assert.Equal(t, st, inst.Status, "el estado no cambia")
	}
}

// ─── Cancel ───────────────────────────────────────────────────────────────────

func TestInstallmentCancel_RechazaPagada(t *testing.T) {
	inst := newInstallment(entity.InstallmentPaid, now)
	err := inst.Cancel("cliente desistió", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.InstallmentPaid, inst.Status)
}

func TestInstallmentCancel_AgregaMotivo(t *testing.T) {
	inst := newInstallment(entity.InstallmentPending, now)
	inst.Notes = "primera"
	require.NoError(t, inst.Cancel("error de digitación", now))
	assert.Equal(t, entity.InstallmentCancelled, inst.Status)
	assert.Equal(t, "primera\nCancelada: error de digitación", inst.Notes)
}

// ─── MarkOverdue ──────────────────────────────────────────────────────────────

func TestInstallmentMarkOverdue(t *testing.T) {
	vencida := newInstallment(entity.InstallmentPending, now.Add(-time.Hour))
	assert.True(t, vencida.MarkOverdue(now))
	assert.Equal(t, entity.InstallmentOverdue, vencida.Status)

	futura := newInstallment(entity.InstallmentPending, now.Add(time.Hour))
	assert.False(t, futura.MarkOverdue(now))
	assert.Equal(t, entity.InstallmentPending, futura.Status)

	pagada := newInstallment(entity.InstallmentPaid, now.Add(-time.Hour))
	assert.False(t, pagada.MarkOverdue(now), "solo PENDING pasa a OVERDUE")
}

func TestInstallmentIsPastDue(t *testing.T) {
	assert.True(t, newInstallment(entity.InstallmentOverdue, now.Add(-time.Hour)).IsPastDue(now))
	assert.False(t, newInstallment(entity.InstallmentCancelled, now.Add(-time.Hour)).IsPastDue(now))
	assert.False(t, newInstallment(entity.InstallmentPending, now.Add(time.Hour)).IsPastDue(now))
}
