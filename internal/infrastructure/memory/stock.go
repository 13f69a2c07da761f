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

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo stock por loja en memoria.
type StockItemRepo struct{ db *DB }

// NewStockItemRepository construye el repositorio.
func NewStockItemRepository(db *DB) *StockItemRepo { return &StockItemRepo{db: db} }

func (r *StockItemRepo) Create(_ context.Context, item *entity.StockItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.stock {
		if other.ProductID == item.ProductID && other.StoreID == item.StoreID {
			return domain.ErrDuplicate
		}
	}
	r.db.stock[item.ID] = *item
	return nil
}

func (r *StockItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	it, ok := r.db.stock[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

// GetForUpdate en memoria el bloqueo lo da el TxRunner.
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *StockItemRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.StockItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[string]*entity.StockItem, len(ids))
	for _, id := range ids {
		if it, ok := r.db.stock[id]; ok {
			out[id] = &it
		}
	}
	return out, nil
}

func (r *StockItemRepo) GetByProductAndStore(_ context.Context, productID, storeID string) (*entity.StockItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, it := range r.db.stock {
		if it.ProductID == productID && it.StoreID == storeID {
			return &it, nil
		}
	}
	return nil, nil
}

func (r *StockItemRepo) ListByStore(_ context.Context, storeID string) ([]*entity.StockItem, error) {
	return r.filter(func(it entity.StockItem, _ entity.Product) bool {
		return it.StoreID == storeID && it.IsActive
	}), nil
}

func (r *StockItemRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockItem, error) {
	return r.filter(func(it entity.StockItem, _ entity.Product) bool {
		return it.ProductID == productID
	}), nil
}

func (r *StockItemRepo) ListLowStock(_ context.Context, storeID string) ([]*entity.StockItem, error) {
	return r.filter(func(it entity.StockItem, _ entity.Product) bool {
		return it.StoreID == storeID && it.IsActive && it.IsLow()
	}), nil
}

func (r *StockItemRepo) Search(_ context.Context, storeID, term string) ([]*entity.StockItem, error) {
	return r.filter(func(it entity.StockItem, p entity.Product) bool {
		return it.StoreID == storeID && it.IsActive &&
			matches(term, p.Name, p.Description, p.Brand, p.Category, p.Barcode)
	}), nil
}

func (r *StockItemRepo) Update(_ context.Context, item *entity.StockItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.stock[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *item
	next.Quantity = cur.Quantity
	r.db.stock[item.ID] = next
	return nil
}

func (r *StockItemRepo) SetQuantity(_ context.Context, id string, qty int, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	it, ok := r.db.stock[id]
	if !ok {
		return fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	if qty < 0 {
		return fmt.Errorf("%w: stock item %s", domain.ErrInsufficientStock, id)
	}
	it.Quantity = qty
	it.UpdatedAt = at
	r.db.stock[id] = it
	return nil
}

func (r *StockItemRepo) Decrement(_ context.Context, id string, qty int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	it, ok := r.db.stock[id]
	if !ok {
		return fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	if it.Quantity < qty {
		return fmt.Errorf("%w: stock item %s disponible %d, solicitado %d",
			domain.ErrInsufficientStock, id, it.Quantity, qty)
	}
	it.Quantity -= qty
	r.db.stock[id] = it
	return nil
}

func (r *StockItemRepo) Increment(_ context.Context, id string, qty int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	it, ok := r.db.stock[id]
	if !ok {
		return fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	it.Quantity += qty
	r.db.stock[id] = it
	return nil
}

func (r *StockItemRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.stock, id)
	return nil
}

func (r *StockItemRepo) HasSales(_ context.Context, id string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.db.anySaleItem(func(it entity.SaleItem) bool { return it.StockItemID == id }), nil
}

// filter devuelve los items que cumplen keep, ordenados por nombre de producto.
func (r *StockItemRepo) filter(keep func(entity.StockItem, entity.Product) bool) []*entity.StockItem {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*entity.StockItem, 0)
	names := map[string]string{}
	for _, it := range r.db.stock {
		p := r.db.products[it.ProductID]
		if !keep(it, p) {
			continue
		}
		it := it
		names[it.ID] = p.Name
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool {
		if names[out[i].ID] != names[out[j].ID] {
			return names[out[i].ID] < names[out[j].ID]
		}
		return out[i].ID < out[j].ID
	})
	return out
}
