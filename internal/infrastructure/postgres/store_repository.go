package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

const storeColumns = `id, company_id, name, address, phone, email, is_active, created_at, updated_at`

func (r *StoreRepo) Create(ctx context.Context, s *entity.Store) error {
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.Name, s.Address, s.Phone, s.Email, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, s.CompanyID)
		}
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return s, nil
}

func (r *StoreRepo) List(ctx context.Context, active *bool) ([]*entity.Store, error) {
	query := `SELECT ` + storeColumns + ` FROM stores WHERE ($1::boolean IS NULL OR is_active = $1) ORDER BY name`
	rows, err := r.q.Query(ctx, query, active)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StoreRepo) Update(ctx context.Context, s *entity.Store) error {
	query := `
		UPDATE stores SET name = $2, address = $3, phone = $4, email = $5, is_active = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, s.ID, s.Name, s.Address, s.Phone, s.Email, s.IsActive, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Counts cuenta stock items, clientes, ventas y usuarios de la loja en una sola consulta.
func (r *StoreRepo) Counts(ctx context.Context, storeID string) (entity.StoreCounts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM stock_items WHERE store_id = $1),
	    (SELECT COUNT(*) FROM customers   WHERE store_id = $1),
	    (SELECT COUNT(*) FROM sales       WHERE store_id = $1),
	    (SELECT COUNT(*) FROM users       WHERE store_id = $1)`
	var c entity.StoreCounts
	if err := r.q.QueryRow(ctx, query, storeID).Scan(&c.StockItems, &c.Customers, &c.Sales, &c.Users); err != nil {
		return c, fmt.Errorf("store counts: %w", err)
	}
	return c, nil
}

func (r *StoreRepo) CountByCompany(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT company_id, COUNT(*) FROM stores GROUP BY company_id`)
	if err != nil {
		return nil, fmt.Errorf("count stores: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan store count: %w", err)
		}
		out[id] = n
	}
	return out, rows.Err()
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
