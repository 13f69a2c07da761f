package inventory

import (
	"context"

	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio de stock atado a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(stockRepo repository.StockItemRepository) error) error
}
