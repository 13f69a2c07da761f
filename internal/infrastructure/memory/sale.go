package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria. Las líneas se copian al guardar y al leer.
type SaleRepo struct{ db *DB }

// NewSaleRepository construye el repositorio.
func NewSaleRepository(db *DB) *SaleRepo { return &SaleRepo{db: db} }

func (r *SaleRepo) Create(_ context.Context, s *entity.Sale) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.db.stores[s.StoreID]; !ok {
		return fmt.Errorf("%w: loja %s", domain.ErrNotFound, s.StoreID)
	}
	r.db.sales[s.ID] = copySale(*s)
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.sales[id]
	if !ok {
		return nil, nil
	}
	out := copySale(s)
	return &out, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.Sale, 0)
	for _, s := range r.db.sales {
		if !saleMatches(s, f) {
			continue
		}
		c := copySale(s)
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *SaleRepo) Cancel(_ context.Context, id, notes string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sales[id]
	if !ok {
		return fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	if s.Status == entity.SaleStatusCancelled {
		return fmt.Errorf("%w: la venta ya está cancelada", domain.ErrConflict)
	}
	s.Status = entity.SaleStatusCancelled
	s.Notes = notes
	s.UpdatedAt = at
	r.db.sales[id] = s
	return nil
}

func saleMatches(s entity.Sale, f repository.SaleFilter) bool {
	switch {
	case f.StoreID != "" && s.StoreID != f.StoreID:
		return false
	case f.CustomerID != "" && s.CustomerID != f.CustomerID:
		return false
	case f.PaymentType != "" && s.PaymentType != f.PaymentType:
		return false
	case f.Status != "" && s.Status != f.Status:
		return false
	case f.ExcludeCancelled && s.Status == entity.SaleStatusCancelled:
		return false
	case f.From != nil && s.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && s.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func copySale(s entity.Sale) entity.Sale {
	items := make([]entity.SaleItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}
