package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo lojas en memoria.
type StoreRepo struct{ db *DB }

// NewStoreRepository construye el repositorio.
func NewStoreRepository(db *DB) *StoreRepo { return &StoreRepo{db: db} }

func (r *StoreRepo) Create(_ context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.companies[s.CompanyID]; !ok {
		return domain.ErrNotFound
	}
	r.db.stores[s.ID] = *s
	return nil
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.stores[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *StoreRepo) List(_ context.Context, active *bool) ([]*entity.Store, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.Store, 0, len(r.db.stores))
	for _, s := range r.db.stores {
		if active != nil && s.IsActive != *active {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *StoreRepo) Update(_ context.Context, s *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.stores[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.db.stores[s.ID] = *s
	return nil
}

func (r *StoreRepo) Counts(_ context.Context, storeID string) (entity.StoreCounts, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var c entity.StoreCounts
	for _, it := range r.db.stock {
		if it.StoreID == storeID {
			c.StockItems++
		}
	}
	for _, cu := range r.db.customers {
		if cu.StoreID == storeID {
			c.Customers++
		}
	}
	for _, s := range r.db.sales {
		if s.StoreID == storeID {
			c.Sales++
		}
	}
	for _, u := range r.db.users {
		if u.StoreID == storeID {
			c.Users++
		}
	}
	return c, nil
}

func (r *StoreRepo) CountByCompany(_ context.Context) (map[string]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := map[string]int{}
	for _, s := range r.db.stores {
		out[s.CompanyID]++
	}
	return out, nil
}
