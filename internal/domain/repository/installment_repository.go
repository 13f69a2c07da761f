package repository

import (
	"context"
	"time"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// InstallmentFilter filtros para listar parcelas. Campos vacíos no filtran.
type InstallmentFilter struct {
	StoreID    string // vía la venta
	CustomerID string
	SaleIDs    []string
	Statuses   []string
	DueBefore  *time.Time // due_date < DueBefore
	DueFrom    *time.Time
	DueTo      *time.Time
}

// InstallmentRepository puerto de persistencia para Installment.
type InstallmentRepository interface {
	Create(ctx context.Context, inst *entity.Installment) error
	GetByID(ctx context.Context, id string) (*entity.Installment, error)
	ExistsNumber(ctx context.Context, saleID string, number int) (bool, error)
	// List ordena por fecha de vencimiento y número.
	List(ctx context.Context, f InstallmentFilter) ([]*entity.Installment, error)
	// UpdateIfStatus escribe la parcela solo si su estado en la base sigue siendo expected.
	// Devuelve false (sin error) cuando otra operación cambió el estado en el medio.
	UpdateIfStatus(ctx context.Context, inst *entity.Installment, expected string) (bool, error)
	// CancelOpenBySale cancela las parcelas PENDING y OVERDUE de la venta.
	CancelOpenBySale(ctx context.Context, saleID string, now time.Time) (int64, error)
	// MarkOverdue pasa a OVERDUE todas las PENDING con due_date < now.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}
