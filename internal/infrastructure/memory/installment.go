package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.InstallmentRepository = (*InstallmentRepo)(nil)

// InstallmentRepo parcelas en memoria. (sale_id, number) es único.
type InstallmentRepo struct{ db *DB }

// NewInstallmentRepository construye el repositorio.
func NewInstallmentRepository(db *DB) *InstallmentRepo { return &InstallmentRepo{db: db} }

func (r *InstallmentRepo) Create(_ context.Context, inst *entity.Installment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.sales[inst.SaleID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.db.installments {
		if other.SaleID == inst.SaleID && other.Number == inst.Number {
			return domain.ErrDuplicate
		}
	}
	r.db.installments[inst.ID] = *inst
	return nil
}

func (r *InstallmentRepo) GetByID(_ context.Context, id string) (*entity.Installment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	i, ok := r.db.installments[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *InstallmentRepo) ExistsNumber(_ context.Context, saleID string, number int) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, i := range r.db.installments {
		if i.SaleID == saleID && i.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *InstallmentRepo) List(_ context.Context, f repository.InstallmentFilter) ([]*entity.Installment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var saleIDs map[string]bool
	if len(f.SaleIDs) > 0 {
		saleIDs = make(map[string]bool, len(f.SaleIDs))
		for _, id := range f.SaleIDs {
			saleIDs[id] = true
		}
	}
	out := make([]*entity.Installment, 0)
	for _, i := range r.db.installments {
		if f.StoreID != "" && r.db.sales[i.SaleID].StoreID != f.StoreID {
			continue
		}
		if f.CustomerID != "" && i.CustomerID != f.CustomerID {
			continue
		}
		if saleIDs != nil && !saleIDs[i.SaleID] {
			continue
		}
		if len(f.Statuses) > 0 && !contains(f.Statuses, i.Status) {
			continue
		}
		if f.DueBefore != nil && !i.DueDate.Before(*f.DueBefore) {
			continue
		}
		if f.DueFrom != nil && i.DueDate.Before(*f.DueFrom) {
			continue
		}
		if f.DueTo != nil && i.DueDate.After(*f.DueTo) {
			continue
		}
		i := i
		out = append(out, &i)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].DueDate.Equal(out[b].DueDate) {
			return out[a].DueDate.Before(out[b].DueDate)
		}
		return out[a].Number < out[b].Number
	})
	return out, nil
}

func (r *InstallmentRepo) UpdateIfStatus(_ context.Context, inst *entity.Installment, expected string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.installments[inst.ID]
	if !ok || cur.Status != expected {
		return false, nil
	}
	r.db.installments[inst.ID] = *inst
	return true, nil
}

func (r *InstallmentRepo) CancelOpenBySale(_ context.Context, saleID string, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, i := range r.db.installments {
		if i.SaleID != saleID || !i.IsOpen() {
			continue
		}
		i.Status = entity.InstallmentCancelled
		i.UpdatedAt = now
		r.db.installments[id] = i
		n++
	}
	return n, nil
}

func (r *InstallmentRepo) MarkOverdue(_ context.Context, now time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, i := range r.db.installments {
		if i.MarkOverdue(now) {
			r.db.installments[id] = i
			n++
		}
	}
	return n, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
