package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/domain"
)

// Operaciones de ajuste de cantidad.
const (
	OpSet      = "set"
	OpAdd      = "add"
	OpSubtract = "subtract"
)

// ApplyQuantity calcula la nueva cantidad de un stock item.
//   - set: valor absoluto (>= 0)
//   - add: suma delta (>= 0)
//   - subtract: resta delta (>= 0); si el resultado fuera negativo se rechaza con ErrInsufficientStock
func ApplyQuantity(current int, operation string, value int) (int, error) {
	if value < 0 {
		return current, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	switch operation {
	case OpSet:
		return value, nil
	case OpAdd:
		return current + value, nil
	case OpSubtract:
		if value > current {
			return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, value)
		}
		return current - value, nil
	default:
		return current, fmt.Errorf("%w: operación %q desconocida", domain.ErrInvalidInput, operation)
	}
}

// StockValue valor de una cantidad a un precio unitario.
func StockValue(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
