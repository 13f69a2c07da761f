package repository

import (
	"context"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Customer, error)
	// GetActiveByCPF busca un cliente activo de la loja con ese CPF.
	GetActiveByCPF(ctx context.Context, storeID, cpf string) (*entity.Customer, error)
	ListByStore(ctx context.Context, storeID string) ([]*entity.Customer, error)
	// Search busca en nombre, CPF, teléfono y email.
	Search(ctx context.Context, storeID, term string) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id string) error
	HasSales(ctx context.Context, id string) (bool, error)
}
