package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

func TestGenerateSaleReceipt_DevuelvePDF(t *testing.T) {
	created := time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC)
	data := sales.ReceiptData{
		Sale: &entity.Sale{
			ID: "0f8c6c1e-5b7a-4e44-9d0a-1c2d3e4f5a6b", StoreID: "loja-1",
			Total: decimal.NewFromInt(45), Discount: decimal.NewFromInt(5),
			PaymentType: entity.PaymentFiado, Status: entity.SaleStatusCompleted, CreatedAt: created,
		},
		Store:    &entity.Store{ID: "loja-1", Name: "Loja Centro", Address: "Rua A, 10"},
		Company:  &entity.Company{Name: "Varejo Ltda", CNPJ: "12345678000199"},
		Customer: &entity.Customer{Name: "Maria", CPF: "12345678901"},
		Lines: []sales.ReceiptLine{
			{ProductName: "Arroz 5kg", Unit: "un", Quantity: 2, Price: decimal.NewFromInt(25), Total: decimal.NewFromInt(50)},
		},
		Installments: []*entity.Installment{
			{Number: 1, Amount: decimal.NewFromInt(45), DueDate: created.AddDate(0, 0, 30), Status: entity.InstallmentPending},
		},
	}

	out, err := NewMarotoReceiptGenerator().GenerateSaleReceipt(context.Background(), data)
	require.NoError(t, err)
	require.True(t, len(out) > 4)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateSaleReceipt_SinClienteNiEmpresa(t *testing.T) {
	data := sales.ReceiptData{
		Sale:  &entity.Sale{ID: "v1", Total: decimal.NewFromInt(3), PaymentType: entity.PaymentCash, Status: entity.SaleStatusCancelled},
		Store: &entity.Store{ID: "loja-1", Name: "Loja Centro"},
	}
	out, err := NewMarotoReceiptGenerator().GenerateSaleReceipt(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestGenerateSaleReceipt_RequiereVenta(t *testing.T) {
	_, err := NewMarotoReceiptGenerator().GenerateSaleReceipt(context.Background(), sales.ReceiptData{})
	assert.Error(t, err)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#abc", shortID("abc"))
	assert.Equal(t, "#0f8c6c1e", shortID("0f8c6c1e-5b7a"))
}
