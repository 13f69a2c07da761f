package repository

import (
	"context"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// StoreRepository puerto de persistencia para Store. El borrado es siempre lógico (Update con IsActive=false).
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	// List filtra por is_active cuando active != nil. Ordena por nombre.
	List(ctx context.Context, active *bool) ([]*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	Counts(ctx context.Context, storeID string) (entity.StoreCounts, error)
	// CountByCompany devuelve la cantidad de lojas por company_id.
	CountByCompany(ctx context.Context) (map[string]int, error)
}
