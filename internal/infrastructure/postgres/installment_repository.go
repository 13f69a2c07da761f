package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

var _ repository.InstallmentRepository = (*InstallmentRepo)(nil)

// InstallmentRepo implementación del puerto InstallmentRepository sobre PostgreSQL (usable con pool o tx).
type InstallmentRepo struct {
	q Querier
}

// NewInstallmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInstallmentRepository(q Querier) *InstallmentRepo {
	return &InstallmentRepo{q: q}
}

const installmentColumns = `i.id, i.sale_id, i.customer_id, i.number, i.amount, i.due_date, i.paid_date,
	i.status, i.payment_type, i.notes, i.created_at, i.updated_at`

// Create persiste una parcela. (sale_id, number) repetido -> ErrDuplicate.
func (r *InstallmentRepo) Create(ctx context.Context, inst *entity.Installment) error {
	query := `
		INSERT INTO installments (id, sale_id, customer_id, number, amount, due_date, paid_date,
		                          status, payment_type, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		inst.ID, inst.SaleID, inst.CustomerID, inst.Number, inst.Amount, inst.DueDate, inst.PaidDate,
		inst.Status, inst.PaymentType, inst.Notes, inst.CreatedAt, inst.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la venta ya tiene la parcela %d", domain.ErrDuplicate, inst.Number)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: venta o cliente de la parcela", domain.ErrNotFound)
		}
		return fmt.Errorf("insert installment: %w", err)
	}
	return nil
}

func (r *InstallmentRepo) GetByID(ctx context.Context, id string) (*entity.Installment, error) {
	inst, err := scanInstallment(r.q.QueryRow(ctx, `SELECT `+installmentColumns+` FROM installments i WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get installment: %w", err)
	}
	return inst, nil
}

func (r *InstallmentRepo) ExistsNumber(ctx context.Context, saleID string, number int) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM installments WHERE sale_id = $1 AND number = $2)`, saleID, number,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("installment exists: %w", err)
	}
	return ok, nil
}

// List aplica los filtros presentes; ordena por vencimiento y número.
func (r *InstallmentRepo) List(ctx context.Context, f repository.InstallmentFilter) ([]*entity.Installment, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	from := `installments i`
	if f.StoreID != "" {
		from += ` JOIN sales s ON s.id = i.sale_id`
		add("s.store_id = $%d", f.StoreID)
	}
	if f.CustomerID != "" {
		add("i.customer_id = $%d", f.CustomerID)
	}
	if len(f.SaleIDs) > 0 {
		add("i.sale_id = ANY($%d)", f.SaleIDs)
	}
	if len(f.Statuses) > 0 {
		add("i.status = ANY($%d)", f.Statuses)
	}
	if f.DueBefore != nil {
		add("i.due_date < $%d", *f.DueBefore)
	}
	if f.DueFrom != nil {
		add("i.due_date >= $%d", *f.DueFrom)
	}
	if f.DueTo != nil {
		add("i.due_date <= $%d", *f.DueTo)
	}
	query := `SELECT ` + installmentColumns + ` FROM ` + from
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY i.due_date, i.number`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		list = append(list, inst)
	}
	return list, rows.Err()
}

// UpdateIfStatus UPDATE condicionado al estado leído: un pago o una cancelación
// concurrente deja RowsAffected en 0 y la fila no se pisa.
func (r *InstallmentRepo) UpdateIfStatus(ctx context.Context, inst *entity.Installment, expected string) (bool, error) {
	query := `
		UPDATE installments
		SET amount = $2, due_date = $3, paid_date = $4, status = $5, payment_type = $6, notes = $7, updated_at = $8
		WHERE id = $1 AND status = $9`
	cmd, err := r.q.Exec(ctx, query,
		inst.ID, inst.Amount, inst.DueDate, inst.PaidDate, inst.Status, inst.PaymentType, inst.Notes, inst.UpdatedAt,
		expected,
	)
	if err != nil {
		return false, fmt.Errorf("update installment: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *InstallmentRepo) CancelOpenBySale(ctx context.Context, saleID string, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE installments SET status = $2, updated_at = $3
		WHERE sale_id = $1 AND status IN ($4, $5)`,
		saleID, entity.InstallmentCancelled, now, entity.InstallmentPending, entity.InstallmentOverdue)
	if err != nil {
		return 0, fmt.Errorf("cancel installments: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// MarkOverdue un único UPDATE: PENDING con due_date < now pasan a OVERDUE.
func (r *InstallmentRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE installments SET status = $1, updated_at = $2
		WHERE status = $3 AND due_date < $2`,
		entity.InstallmentOverdue, now, entity.InstallmentPending)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanInstallment(row pgx.Row) (*entity.Installment, error) {
	var i entity.Installment
	err := row.Scan(&i.ID, &i.SaleID, &i.CustomerID, &i.Number, &i.Amount, &i.DueDate, &i.PaidDate,
		&i.Status, &i.PaymentType, &i.Notes, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
