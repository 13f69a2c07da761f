package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const stockColumns = `s.id, s.product_id, s.store_id, s.quantity, s.min_quantity, s.max_quantity,
	s.purchase_price, s.sale_price, s.is_active, s.created_at, s.updated_at`

func (r *StockItemRepo) Create(ctx context.Context, it *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, product_id, store_id, quantity, min_quantity, max_quantity,
		                         purchase_price, sale_price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.ProductID, it.StoreID, it.Quantity, it.MinQuantity, it.MaxQuantity,
		it.PurchasePrice, it.SalePrice, it.IsActive, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto o loja", domain.ErrNotFound)
		}
		return fmt.Errorf("insert stock item: %w", err)
	}
	return nil
}

func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stock_items s WHERE s.id = $1`, id)
}

// GetForUpdate obtiene el item y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.getOne(ctx, `SELECT `+stockColumns+` FROM stock_items s WHERE s.id = $1 FOR UPDATE`, id)
}

func (r *StockItemRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.StockItem, error) {
	out := make(map[string]*entity.StockItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.list(ctx, `SELECT `+stockColumns+` FROM stock_items s WHERE s.id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range list {
		out[it.ID] = it
	}
	return out, nil
}

func (r *StockItemRepo) GetByProductAndStore(ctx context.Context, productID, storeID string) (*entity.StockItem, error) {
	return r.getOne(ctx,
		`SELECT `+stockColumns+` FROM stock_items s WHERE s.product_id = $1 AND s.store_id = $2`,
		productID, storeID)
}

func (r *StockItemRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_items s JOIN products p ON p.id = s.product_id
		WHERE s.store_id = $1 AND s.is_active
		ORDER BY p.name, s.id`
	return r.list(ctx, query, storeID)
}

func (r *StockItemRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockItem, error) {
	return r.list(ctx, `SELECT `+stockColumns+` FROM stock_items s WHERE s.product_id = $1 ORDER BY s.store_id`, productID)
}

func (r *StockItemRepo) ListLowStock(ctx context.Context, storeID string) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_items s JOIN products p ON p.id = s.product_id
		WHERE s.store_id = $1 AND s.is_active AND s.quantity <= s.min_quantity
		ORDER BY p.name, s.id`
	return r.list(ctx, query, storeID)
}

func (r *StockItemRepo) Search(ctx context.Context, storeID, term string) ([]*entity.StockItem, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_items s JOIN products p ON p.id = s.product_id
		WHERE s.store_id = $1 AND s.is_active
		  AND (p.name ILIKE $2 OR p.description ILIKE $2 OR p.brand ILIKE $2 OR p.category ILIKE $2 OR p.barcode ILIKE $2)
		ORDER BY p.name, s.id`
	return r.list(ctx, query, storeID, likePattern(term))
}

func (r *StockItemRepo) Update(ctx context.Context, it *entity.StockItem) error {
	query := `
		UPDATE stock_items
		SET min_quantity = $2, max_quantity = $3, purchase_price = $4, sale_price = $5,
		    is_active = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		it.ID, it.MinQuantity, it.MaxQuantity, it.PurchasePrice, it.SalePrice, it.IsActive, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockItemRepo) SetQuantity(ctx context.Context, id string, qty int, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_items SET quantity = $2, updated_at = $3
		WHERE id = $1`, id, qty, at)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: stock item %s", domain.ErrInsufficientStock, id)
		}
		return fmt.Errorf("set stock quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	return nil
}

// Decrement resta qty con un UPDATE condicionado: si no hay existencia suficiente no toca la fila.
func (r *StockItemRepo) Decrement(ctx context.Context, id string, qty int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_items SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`, id, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock item %s", domain.ErrInsufficientStock, id)
	}
	return nil
}

func (r *StockItemRepo) Increment(ctx context.Context, id string, qty int) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE stock_items SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *StockItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_items WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el stock item tiene ventas", domain.ErrConflict)
		}
		return fmt.Errorf("delete stock item: %w", err)
	}
	return nil
}

func (r *StockItemRepo) HasSales(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sale_items WHERE stock_item_id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("stock item has sales: %w", err)
	}
	return ok, nil
}

func (r *StockItemRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockItem, error) {
	it, err := scanStockItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return it, nil
}

func (r *StockItemRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock items: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(
		&it.ID, &it.ProductID, &it.StoreID, &it.Quantity, &it.MinQuantity, &it.MaxQuantity,
		&it.PurchasePrice, &it.SalePrice, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
