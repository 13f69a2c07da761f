package repository

import (
	"context"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para Product.
// GetBy* devuelven (nil, nil) cuando no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// ListActive lista productos activos ordenados por nombre.
	ListActive(ctx context.Context) ([]*entity.Product, error)
	// Search busca en nombre, descripción, marca, categoría y código de barras (sin distinguir mayúsculas).
	Search(ctx context.Context, term string) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// HasSales indica si alguna línea de venta referencia al producto.
	HasSales(ctx context.Context, id string) (bool, error)
}
