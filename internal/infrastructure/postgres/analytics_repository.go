package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de la loja.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// SalesSummary suma total y cantidad de las ventas no canceladas en [from, to).
// Usa COALESCE para devolver cero si no hay filas (período sin ventas).
func (r *AnalyticsRepo) SalesSummary(
	ctx context.Context,
	storeID string,
	from, to time.Time,
) (total decimal.Decimal, count int, err error) {
	const query = `
	SELECT
	    COALESCE(SUM(s.total), 0) AS total,
	    COUNT(*)                  AS sales_count
	FROM sales s
	WHERE s.store_id   = $1
	  AND s.created_at >= $2
	  AND s.created_at <  $3
	  AND s.status     <> 'CANCELLED'`

	err = r.pool.QueryRow(ctx, query, storeID, from, to).Scan(&total, &count)
	if err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.SalesSummary: %w", err)
	}
	return total, count, nil
}

// TopProducts devuelve los `limit` productos con más unidades vendidas en el período.
func (r *AnalyticsRepo) TopProducts(
	ctx context.Context,
	storeID string,
	from, to time.Time,
	limit int,
) ([]repository.ProductSalesResult, error) {
	const query = `
	SELECT
	    p.id              AS product_id,
	    p.name            AS product_name,
	    SUM(d.quantity)   AS quantity_sold,
	    SUM(d.total)      AS revenue
	FROM sale_items d
	JOIN sales    s ON s.id = d.sale_id
	JOIN products p ON p.id = d.product_id
	WHERE s.store_id   = $1
	  AND s.created_at >= $2
	  AND s.created_at <  $3
	  AND s.status     <> 'CANCELLED'
	GROUP BY p.id, p.name
	ORDER BY quantity_sold DESC, revenue DESC, p.id
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, storeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.ProductSalesResult{}
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Quantity, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.TopProducts rows: %w", err)
	}
	return results, nil
}

// CountActiveCustomers clientes activos de la loja.
func (r *AnalyticsRepo) CountActiveCustomers(ctx context.Context, storeID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM customers WHERE store_id = $1 AND is_active`, storeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("analytics.CountActiveCustomers: %w", err)
	}
	return n, nil
}
