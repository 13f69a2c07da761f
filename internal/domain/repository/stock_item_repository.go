package repository

import (
	"context"
	"time"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// StockItemRepository puerto de persistencia para StockItem (usable con pool o tx).
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate obtiene el item y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.StockItem, error)
	GetByProductAndStore(ctx context.Context, productID, storeID string) (*entity.StockItem, error)
	// ListByStore lista los items activos de la loja ordenados por nombre de producto.
	ListByStore(ctx context.Context, storeID string) ([]*entity.StockItem, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error)
	// ListLowStock items activos con quantity <= min_quantity.
	ListLowStock(ctx context.Context, storeID string) ([]*entity.StockItem, error)
	// Search busca por datos del producto dentro de la loja.
	Search(ctx context.Context, storeID, term string) ([]*entity.StockItem, error)
	// Update escribe umbrales, precios y estado. Nunca toca quantity: la cantidad
	// solo cambia por SetQuantity, Decrement o Increment.
	Update(ctx context.Context, item *entity.StockItem) error
	// SetQuantity fija la cantidad absoluta (usar con la fila bloqueada).
	SetQuantity(ctx context.Context, id string, qty int, at time.Time) error
	// Decrement resta qty solo si hay existencia suficiente; si no, ErrInsufficientStock.
	Decrement(ctx context.Context, id string, qty int) error
	Increment(ctx context.Context, id string, qty int) error
	Delete(ctx context.Context, id string) error
	HasSales(ctx context.Context, id string) (bool, error)
}
