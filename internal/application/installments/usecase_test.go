package installments_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/installments"
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/internal/infrastructure/cache"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

var now = time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newUC arma una venta a plazo con tres parcelas: una vencida, una futura y una pagada.
func newUC(t *testing.T) (*installments.InstallmentUseCase, *memory.DB) {
	t.Helper()
	ctx := context.Background()
	db := memory.NewDB()
	require.NoError(t, memory.NewCompanyRepository(db).Create(ctx, &entity.Company{ID: "c1", Name: "Rede", CNPJ: "1"}))
	require.NoError(t, memory.NewStoreRepository(db).Create(ctx, &entity.Store{ID: "s1", CompanyID: "c1", Name: "Centro", IsActive: true}))
	require.NoError(t, memory.NewCustomerRepository(db).Create(ctx, &entity.Customer{ID: "cu1", StoreID: "s1", Name: "Ana", IsActive: true}))
	require.NoError(t, memory.NewSaleRepository(db).Create(ctx, &entity.Sale{
		ID: "sale1", StoreID: "s1", CustomerID: "cu1", Total: dec("300"),
		PaymentType: entity.PaymentInstallments, Status: entity.SaleStatusCompleted, CreatedAt: now.AddDate(0, -1, 0),
	}))
	repo := memory.NewInstallmentRepository(db)
	paidAt := now.AddDate(0, 0, -20)
	for _, i := range []*entity.Installment{
		{ID: "i1", SaleID: "sale1", CustomerID: "cu1", Number: 1, Amount: dec("100"), DueDate: now.AddDate(0, 0, -20), Status: entity.InstallmentPaid, PaidDate: &paidAt, PaymentType: entity.PaymentPix},
		{ID: "i2", SaleID: "sale1", CustomerID: "cu1", Number: 2, Amount: dec("100"), DueDate: now.AddDate(0, 0, -5), Status: entity.InstallmentPending},
		{ID: "i3", SaleID: "sale1", CustomerID: "cu1", Number: 3, Amount: dec("100"), DueDate: now.AddDate(0, 0, 25), Status: entity.InstallmentPending},
	} {
		require.NoError(t, repo.Create(ctx, i))
	}
	uc := installments.NewInstallmentUseCase(repo, memory.NewSaleRepository(db), memory.NewCustomerRepository(db), logger.Nop()).
		WithClock(func() time.Time { return now })
	return uc, db
}

func TestUpdateOverdue_SoloPendientesVencidasYEsIdempotente(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()

	n, err := uc.UpdateOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := uc.GetByID(ctx, "i2")
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentOverdue, got.Status)

	got, err = uc.GetByID(ctx, "i3")
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPending, got.Status)

	n, err = uc.UpdateOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestPay_DesdePendienteOVencida(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()
	_, err := uc.UpdateOverdue(ctx)
	require.NoError(t, err)

	out, err := uc.Pay(ctx, "i2", dto.PayInstallmentRequest{PaymentType: entity.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPaid, out.Status)
	assert.Equal(t, entity.PaymentCash, out.PaymentType)
	require.NotNil(t, out.PaidDate)
	assert.True(t, out.PaidDate.Equal(now))

	paidDate := now.AddDate(0, 0, -1)
	out, err = uc.Pay(ctx, "i3", dto.PayInstallmentRequest{PaymentType: entity.PaymentCard, PaidDate: &paidDate, Notes: "adiantado"})
	require.NoError(t, err)
	assert.True(t, out.PaidDate.Equal(paidDate))
	assert.Equal(t, "adiantado", out.Notes)
}

func TestTransicionesTerminales(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()

	_, err := uc.Pay(ctx, "i1", dto.PayInstallmentRequest{PaymentType: entity.PaymentCash})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = uc.Cancel(ctx, "i1", dto.CancelInstallmentRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	out, err := uc.Cancel(ctx, "i3", dto.CancelInstallmentRequest{Reason: "renegociada"})
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentCancelled, out.Status)
	assert.Contains(t, out.Notes, "renegociada")

	_, err = uc.Pay(ctx, "i3", dto.PayInstallmentRequest{PaymentType: entity.PaymentPix})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	amount := dec("50")
	_, err = uc.Update(ctx, "i3", dto.UpdateInstallmentRequest{Amount: &amount})
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = uc.Pay(ctx, "nope", dto.PayInstallmentRequest{PaymentType: entity.PaymentPix})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_NumeroRepetidoYVentaInexistente(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateInstallmentRequest{SaleID: "sale1", CustomerID: "cu1", Number: 2, Amount: dec("10"), DueDate: now})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, dto.CreateInstallmentRequest{SaleID: "nope", CustomerID: "cu1", Number: 9, Amount: dec("10"), DueDate: now})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = uc.Create(ctx, dto.CreateInstallmentRequest{SaleID: "sale1", CustomerID: "cu1", Number: 4, Amount: dec("-1"), DueDate: now})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	free, err := uc.Create(ctx, dto.CreateInstallmentRequest{SaleID: "sale1", CustomerID: "cu1", Number: 5, Amount: dec("0"), DueDate: now})
	require.NoError(t, err, "monto cero es válido (parcela bonificada)")
	assert.True(t, free.Amount.IsZero())

	out, err := uc.Create(ctx, dto.CreateInstallmentRequest{SaleID: "sale1", CustomerID: "cu1", Number: 4, Amount: dec("40"), DueDate: now.AddDate(0, 2, 0)})
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentPending, out.Status)
	require.NotNil(t, out.Customer)
	assert.Equal(t, "Ana", out.Customer.Name)
}

func TestOverdueYReport(t *testing.T) {
	uc, _ := newUC(t)
	ctx := context.Background()

	// Sin barrido la vencida ya aparece por fecha.
	overdue, err := uc.Overdue(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "i2", overdue[0].ID)

	rep, err := uc.Report(ctx, dto.InstallmentFilter{StoreID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.TotalInstallments)
	assert.True(t, rep.TotalAmount.Equal(dec("300")))
	assert.Equal(t, 1, rep.PaidCount)
	assert.Equal(t, 1, rep.OverdueCount)
	assert.Equal(t, 1, rep.PendingCount)
	assert.True(t, rep.PendingAmount.Equal(dec("100")))

	byCustomer, err := uc.ByCustomer(ctx, "cu1")
	require.NoError(t, err)
	require.Len(t, byCustomer, 3)
	assert.Equal(t, "i1", byCustomer[0].ID, "ordenadas por vencimiento")
}

func TestUpdate_SoloMientrasEsteAbierta(t *testing.T) {
	amount := func(v string) *decimal.Decimal { d := dec(v); return &d }
	due := now.AddDate(0, 1, 0)
	notes := "renegociada"

	tests := []struct {
		name    string
		id      string
		prepare func(t *testing.T, uc *installments.InstallmentUseCase)
		in      dto.UpdateInstallmentRequest
		wantErr error
	}{
		{name: "pendiente acepta monto, vencimiento y notas", id: "i3", in: dto.UpdateInstallmentRequest{Amount: amount("80"), DueDate: &due, Notes: &notes}},
		{name: "vencida acepta edición", id: "i2", prepare: sweep, in: dto.UpdateInstallmentRequest{Amount: amount("90")}},
		{name: "monto cero", id: "i3", in: dto.UpdateInstallmentRequest{Amount: amount("0")}},
		{name: "pagada se rechaza", id: "i1", in: dto.UpdateInstallmentRequest{Amount: amount("50")}, wantErr: domain.ErrInvalidTransition},
		{
			name: "cancelada se rechaza",
			id:   "i3",
			prepare: func(t *testing.T, uc *installments.InstallmentUseCase) {
				_, err := uc.Cancel(context.Background(), "i3", dto.CancelInstallmentRequest{})
				require.NoError(t, err)
			},
			in:      dto.UpdateInstallmentRequest{Notes: &notes},
			wantErr: domain.ErrInvalidTransition,
		},
		{name: "monto negativo", id: "i3", in: dto.UpdateInstallmentRequest{Amount: amount("-5")}, wantErr: domain.ErrInvalidInput},
		{name: "inexistente", id: "nope", in: dto.UpdateInstallmentRequest{Notes: &notes}, wantErr: domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUC(t)
			ctx := context.Background()
			if tt.prepare != nil {
				tt.prepare(t, uc)
			}
			before, _ := uc.GetByID(ctx, tt.id)

			out, err := uc.Update(ctx, tt.id, tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				if before != nil {
					after, err := uc.GetByID(ctx, tt.id)
					require.NoError(t, err)
					assert.Equal(t, before.Status, after.Status)
					assert.True(t, before.Amount.Equal(after.Amount))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before.Status, out.Status, "editar no cambia el estado")
			if tt.in.Amount != nil {
				assert.True(t, out.Amount.Equal(*tt.in.Amount))
			}
			if tt.in.DueDate != nil {
				assert.True(t, out.DueDate.Equal(*tt.in.DueDate))
			}
			if tt.in.Notes != nil {
				assert.Equal(t, *tt.in.Notes, out.Notes)
			}
		})
	}
}

func sweep(t *testing.T, uc *installments.InstallmentUseCase) {
	t.Helper()
	_, err := uc.UpdateOverdue(context.Background())
	require.NoError(t, err)
}

// interleavedRepo ejecuta between una sola vez, después de la primera lectura
// de la parcela y antes de que el caso de uso escriba.
type interleavedRepo struct {
	repository.InstallmentRepository
	between func()
	once    sync.Once
}

func (r *interleavedRepo) GetByID(ctx context.Context, id string) (*entity.Installment, error) {
	inst, err := r.InstallmentRepository.GetByID(ctx, id)
	r.once.Do(r.between)
	return inst, err
}

func newInterleavedUC(db *memory.DB, between func()) *installments.InstallmentUseCase {
	repo := &interleavedRepo{InstallmentRepository: memory.NewInstallmentRepository(db), between: between}
	return installments.NewInstallmentUseCase(repo, memory.NewSaleRepository(db), memory.NewCustomerRepository(db), logger.Nop()).
		WithClock(func() time.Time { return now })
}

func TestPay_CancelacionDeVentaEnParaleloGana(t *testing.T) {
	_, db := newUC(t)
	ctx := context.Background()
	saleUC := sales.NewSaleUseCase(memory.NewTxRunner(db), sales.Repos{
		Stores:       memory.NewStoreRepository(db),
		Customers:    memory.NewCustomerRepository(db),
		Users:        memory.NewUserRepository(db),
		Products:     memory.NewProductRepository(db),
		StockItems:   memory.NewStockItemRepository(db),
		Sales:        memory.NewSaleRepository(db),
		Installments: memory.NewInstallmentRepository(db),
	}, cache.NoopStoreCache{}, logger.Nop()).WithClock(func() time.Time { return now })

	var cancelErr error
	uc := newInterleavedUC(db, func() {
		_, cancelErr = saleUC.Cancel(ctx, "sale1", dto.CancelSaleRequest{Reason: "devolução"})
	})

	_, err := uc.Pay(ctx, "i3", dto.PayInstallmentRequest{PaymentType: entity.PaymentPix})
	require.NoError(t, cancelErr)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "got %v", err)

	stored, err := memory.NewInstallmentRepository(db).GetByID(ctx, "i3")
	require.NoError(t, err)
	assert.Equal(t, entity.InstallmentCancelled, stored.Status)
	assert.Nil(t, stored.PaidDate)
}

func TestEscriturasConcurrentesNoPisanTransiciones(t *testing.T) {
	payCash := func(ctx context.Context, db *memory.DB) {
		_, _ = plainUC(db).Pay(ctx, "i3", dto.PayInstallmentRequest{PaymentType: entity.PaymentCash})
	}

	tests := []struct {
		name       string
		id         string
		between    func(ctx context.Context, db *memory.DB)
		run        func(ctx context.Context, uc *installments.InstallmentUseCase) error
		wantErr    error
		wantStatus string
	}{
		{
			name:    "doble pago",
			id:      "i3",
			between: payCash,
			run: func(ctx context.Context, uc *installments.InstallmentUseCase) error {
				_, err := uc.Pay(ctx, "i3", dto.PayInstallmentRequest{PaymentType: entity.PaymentCard})
				return err
			},
			wantErr:    domain.ErrInvalidTransition,
			wantStatus: entity.InstallmentPaid,
		},
		{
			name:    "edición de monto contra pago",
			id:      "i3",
			between: payCash,
			run: func(ctx context.Context, uc *installments.InstallmentUseCase) error {
				amount := dec("10")
				_, err := uc.Update(ctx, "i3", dto.UpdateInstallmentRequest{Amount: &amount})
				return err
			},
			wantErr:    domain.ErrInvalidTransition,
			wantStatus: entity.InstallmentPaid,
		},
		{
			name: "barrido durante el pago",
			id:   "i2",
			between: func(ctx context.Context, db *memory.DB) {
				_, _ = memory.NewInstallmentRepository(db).MarkOverdue(ctx, now)
			},
			run: func(ctx context.Context, uc *installments.InstallmentUseCase) error {
				_, err := uc.Pay(ctx, "i2", dto.PayInstallmentRequest{PaymentType: entity.PaymentCash})
				return err
			},
			wantStatus: entity.InstallmentPaid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, db := newUC(t)
			ctx := context.Background()
			uc := newInterleavedUC(db, func() { tt.between(ctx, db) })

			err := tt.run(ctx, uc)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}

			stored, err := memory.NewInstallmentRepository(db).GetByID(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
			assert.Equal(t, entity.PaymentCash, stored.PaymentType, "queda el pago que ganó")
			assert.True(t, stored.Amount.Equal(dec("100")))
		})
	}
}

func plainUC(db *memory.DB) *installments.InstallmentUseCase {
	return installments.NewInstallmentUseCase(memory.NewInstallmentRepository(db), memory.NewSaleRepository(db), memory.NewCustomerRepository(db), logger.Nop()).
		WithClock(func() time.Time { return now })
}
