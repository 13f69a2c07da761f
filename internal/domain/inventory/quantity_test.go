package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/inventory"
)

func TestApplyQuantity_Operaciones(t *testing.T) {
	cases := []struct {
		name    string
		current int
		op      string
		value   int
		want    int
	}{
		{"set reemplaza", 10, inventory.OpSet, 4, 4},
		{"set a cero", 10, inventory.OpSet, 0, 0},
		{"add suma", 10, inventory.OpAdd, 5, 15},
		{"subtract resta", 10, inventory.OpSubtract, 3, 7},
		{"subtract exacto deja cero", 10, inventory.OpSubtract, 10, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyQuantity(tc.current, tc.op, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Restar más de lo disponible se rechaza: la cantidad nunca queda negativa.
func TestApplyQuantity_SubtractNuncaNegativo(t *testing.T) {
	got, err := inventory.ApplyQuantity(2, inventory.OpSubtract, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, got, "la cantidad original se conserva")
}

func TestApplyQuantity_ValoresInvalidos(t *testing.T) {
	_, err := inventory.ApplyQuantity(5, inventory.OpAdd, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "delta negativo es inválido")

	_, err = inventory.ApplyQuantity(5, "multiply", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "operación desconocida es inválida")
}

func TestStockValue(t *testing.T) {
	v := inventory.StockValue(3, decimal.RequireFromString("2.50"))
	assert.True(t, v.Equal(decimal.RequireFromString("7.50")), "3 x 2,50 = 7,50")
}
