package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados de ventas calculados sobre el almacén en memoria.
type AnalyticsRepo struct{ db *DB }

// NewAnalyticsRepository construye el repositorio.
func NewAnalyticsRepository(db *DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

func (r *AnalyticsRepo) SalesSummary(_ context.Context, storeID string, from, to time.Time) (decimal.Decimal, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	total := decimal.Zero
	n := 0
	r.eachSale(storeID, from, to, func(s entity.Sale) {
		total = total.Add(s.Total)
		n++
	})
	return total, n, nil
}

func (r *AnalyticsRepo) TopProducts(_ context.Context, storeID string, from, to time.Time, limit int) ([]repository.ProductSalesResult, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	acc := map[string]*repository.ProductSalesResult{}
	r.eachSale(storeID, from, to, func(s entity.Sale) {
		for _, it := range s.Items {
			p, ok := acc[it.ProductID]
			if !ok {
				p = &repository.ProductSalesResult{
					ProductID:   it.ProductID,
					ProductName: r.db.products[it.ProductID].Name,
					Revenue:     decimal.Zero,
				}
				acc[it.ProductID] = p
			}
			p.Quantity += it.Quantity
			p.Revenue = p.Revenue.Add(it.Total)
		}
	})
	out := make([]repository.ProductSalesResult, 0, len(acc))
	for _, p := range acc {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepo) CountActiveCustomers(_ context.Context, storeID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	n := 0
	for _, c := range r.db.customers {
		if c.StoreID == storeID && c.IsActive {
			n++
		}
	}
	return n, nil
}

// eachSale ventas no canceladas de la loja en [from, to); se llama con el lock tomado.
func (r *AnalyticsRepo) eachSale(storeID string, from, to time.Time, fn func(entity.Sale)) {
	for _, s := range r.db.sales {
		if s.StoreID != storeID || s.Status == entity.SaleStatusCancelled {
			continue
		}
		if s.CreatedAt.Before(from) || !s.CreatedAt.Before(to) {
			continue
		}
		fn(s)
	}
}
