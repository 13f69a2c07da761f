package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ db *DB }

// NewCustomerRepository construye el repositorio.
func NewCustomerRepository(db *DB) *CustomerRepo { return &CustomerRepo{db: db} }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.stores[c.StoreID]; !ok {
		return domain.ErrNotFound
	}
	r.db.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[string]*entity.Customer, len(ids))
	for _, id := range ids {
		if c, ok := r.db.customers[id]; ok {
			out[id] = &c
		}
	}
	return out, nil
}

func (r *CustomerRepo) GetActiveByCPF(_ context.Context, storeID, cpf string) (*entity.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, c := range r.db.customers {
		if c.StoreID == storeID && c.IsActive && c.CPF == cpf {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) ListByStore(_ context.Context, storeID string) ([]*entity.Customer, error) {
	return r.filter(func(c entity.Customer) bool { return c.StoreID == storeID && c.IsActive }), nil
}

func (r *CustomerRepo) Search(_ context.Context, storeID, term string) ([]*entity.Customer, error) {
	return r.filter(func(c entity.Customer) bool {
		return c.StoreID == storeID && c.IsActive && matches(term, c.Name, c.CPF, c.Phone, c.Email)
	}), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.customers, id)
	return nil
}

func (r *CustomerRepo) HasSales(_ context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, s := range r.db.sales {
		if s.CustomerID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *CustomerRepo) filter(keep func(entity.Customer) bool) []*entity.Customer {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.Customer, 0)
	for _, c := range r.db.customers {
		if keep(c) {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
