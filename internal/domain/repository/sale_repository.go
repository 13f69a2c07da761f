package repository

import (
	"context"
	"time"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// SaleFilter filtros para listar ventas. Campos vacíos no filtran.
type SaleFilter struct {
	StoreID          string
	CustomerID       string
	PaymentType      string
	Status           string
	ExcludeCancelled bool
	From             *time.Time
	To               *time.Time
}

// SaleRepository puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	// Create inserta la cabecera y sus Items.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus Items.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve ventas con Items, más recientes primero.
	List(ctx context.Context, f SaleFilter) ([]*entity.Sale, error)
	// Cancel marca la venta CANCELLED y reemplaza notes. Si ya estaba cancelada devuelve ErrConflict.
	Cancel(ctx context.Context, id, notes string, at time.Time) error
}
