package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct{ db *DB }

// NewProductRepository construye el repositorio.
func NewProductRepository(db *DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.barcodeTaken(p.Barcode, p.ID) {
		return domain.ErrDuplicate
	}
	r.db.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.db.products[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if barcode == "" {
		return nil, nil
	}
	for _, p := range r.db.products {
		if p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p entity.Product) bool { return p.IsActive }), nil
}

func (r *ProductRepo) Search(_ context.Context, term string) ([]*entity.Product, error) {
	return r.filter(func(p entity.Product) bool {
		return p.IsActive && matches(term, p.Name, p.Description, p.Brand, p.Category, p.Barcode)
	}), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.barcodeTaken(p.Barcode, p.ID) {
		return domain.ErrDuplicate
	}
	r.db.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	for sid, it := range r.db.stock {
		if it.ProductID == id {
			delete(r.db.stock, sid)
		}
	}
	return nil
}

func (r *ProductRepo) HasSales(_ context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.anySaleItem(func(it entity.SaleItem) bool { return it.ProductID == id }), nil
}

func (r *ProductRepo) filter(keep func(entity.Product) bool) []*entity.Product {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.Product, 0)
	for _, p := range r.db.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// barcodeTaken se llama con el lock tomado.
func (r *ProductRepo) barcodeTaken(barcode, selfID string) bool {
	if barcode == "" {
		return false
	}
	for _, other := range r.db.products {
		if other.ID != selfID && other.Barcode == barcode {
			return true
		}
	}
	return false
}

// anySaleItem recorre las líneas de venta; se llama con el lock tomado.
func (db *DB) anySaleItem(pred func(entity.SaleItem) bool) bool {
	for _, s := range db.sales {
		for _, it := range s.Items {
			if pred(it) {
				return true
			}
		}
	}
	return false
}
