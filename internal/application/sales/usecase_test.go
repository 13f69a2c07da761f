package sales_test

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
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type spyCache struct {
	mu          sync.Mutex
	invalidated []string
	failWith    error
}

func (c *spyCache) Get(context.Context, string, string, any) (bool, error) { return false, nil }
func (c *spyCache) Set(context.Context, string, string, any) error         { return nil }
func (c *spyCache) Invalidate(_ context.Context, storeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, storeID)
	return c.failWith
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type env struct {
	db    *memory.DB
	uc    *sales.SaleUseCase
	cache *spyCache
	repos sales.Repos
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	db := memory.NewDB()
	repos := sales.Repos{
		Stores:       memory.NewStoreRepository(db),
		Customers:    memory.NewCustomerRepository(db),
		Users:        memory.NewUserRepository(db),
		Products:     memory.NewProductRepository(db),
		StockItems:   memory.NewStockItemRepository(db),
		Sales:        memory.NewSaleRepository(db),
		Installments: memory.NewInstallmentRepository(db),
	}
	require.NoError(t, memory.NewCompanyRepository(db).Create(ctx, &entity.Company{ID: "c1", Name: "Rede", CNPJ: "12345678000199", CreatedAt: fixedNow}))
	for _, s := range []*entity.Store{
		{ID: "s1", CompanyID: "c1", Name: "Centro", IsActive: true, CreatedAt: fixedNow},
		{ID: "s2", CompanyID: "c1", Name: "Bairro", IsActive: true, CreatedAt: fixedNow},
	} {
		require.NoError(t, repos.Stores.Create(ctx, s))
	}
	for _, p := range []*entity.Product{
		{ID: "p1", Name: "Arroz 5kg", Unit: "un", IsActive: true, CreatedAt: fixedNow},
		{ID: "p2", Name: "Feijão 1kg", Unit: "un", IsActive: true, CreatedAt: fixedNow},
	} {
		require.NoError(t, repos.Products.Create(ctx, p))
	}
	for _, st := range []*entity.StockItem{
		{ID: "st1", ProductID: "p1", StoreID: "s1", Quantity: 10, SalePrice: decimal.NewFromInt(25), IsActive: true},
		{ID: "st2", ProductID: "p2", StoreID: "s1", Quantity: 5, SalePrice: decimal.NewFromInt(8), IsActive: true},
		{ID: "st3", ProductID: "p1", StoreID: "s2", Quantity: 50, SalePrice: decimal.NewFromInt(25), IsActive: true},
	} {
		require.NoError(t, repos.StockItems.Create(ctx, st))
	}
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "cu1", StoreID: "s1", Name: "Maria", IsActive: true, CreatedAt: fixedNow}))
	require.NoError(t, repos.Customers.Create(ctx, &entity.Customer{ID: "cu2", StoreID: "s2", Name: "João", IsActive: true, CreatedAt: fixedNow}))

	cache := &spyCache{}
	uc := sales.NewSaleUseCase(memory.NewTxRunner(db), repos, cache, logger.Nop()).
		WithClock(func() time.Time { return fixedNow })
	return &env{db: db, uc: uc, cache: cache, repos: repos}
}

func (e *env) quantity(t *testing.T, id string) int {
	t.Helper()
	item, err := e.repos.StockItems.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.Quantity
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(productID, stockID string, qty int, price string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, StockItemID: stockID, Quantity: qty, Price: dec(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_DescuentaStockYCalculaTotal(t *testing.T) {
	e := newEnv(t)
	out, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID:     "s1",
		PaymentType: entity.PaymentPix,
		Discount:    dec("5"),
		Items:       []dto.SaleItemRequest{item("p1", "st1", 2, "25.00"), item("p2", "st2", 3, "8.00")},
	})
	require.NoError(t, err)
	assert.True(t, out.Total.Equal(dec("69")), "total %s", out.Total)
	assert.Equal(t, entity.SaleStatusCompleted, out.Status)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 8, e.quantity(t, "st1"))
	assert.Equal(t, 2, e.quantity(t, "st2"))
	assert.Equal(t, []string{"s1"}, e.cache.invalidated)
}

func TestCreate_CantidadCombinadaInsuficienteNoModificaNada(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID:     "s1",
		PaymentType: entity.PaymentCash,
		Items:       []dto.SaleItemRequest{item("p1", "st1", 6, "25"), item("p1", "st1", 5, "25")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, e.quantity(t, "st1"))

	list, err := e.uc.List(context.Background(), dto.SaleFilter{StoreID: "s1"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, e.cache.invalidated)
}

func TestCreate_Validaciones(t *testing.T) {
	cases := []struct {
		name string
		in   dto.CreateSaleRequest
		want error
	}{
		{
			name: "forma de pago desconocida",
			in:   dto.CreateSaleRequest{StoreID: "s1", PaymentType: "BOLETO", Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}},
			want: domain.ErrInvalidInput,
		},
		{
			name: "loja inexistente",
			in:   dto.CreateSaleRequest{StoreID: "nope", PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}},
			want: domain.ErrNotFound,
		},
		{
			name: "fiado sin cliente",
			in:   dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentFiado, Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}},
			want: domain.ErrInvalidInput,
		},
		{
			name: "cliente de otra loja",
			in:   dto.CreateSaleRequest{StoreID: "s1", CustomerID: "cu2", PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}},
			want: domain.ErrInvalidInput,
		},
		{
			name: "stock item de otra loja",
			in:   dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{item("p1", "st3", 1, "25")}},
			want: domain.ErrInvalidInput,
		},
		{
			name: "total informado distinto del calculado",
			in: func() dto.CreateSaleRequest {
				total := dec("99")
				return dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentCash, Total: &total, Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}}
			}(),
			want: domain.ErrInvalidInput,
		},
		{
			name: "descuento mayor que el subtotal",
			in:   dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentCash, Discount: dec("30"), Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}},
			want: domain.ErrInvalidInput,
		},
		{
			name: "parcela con monto negativo",
			in: dto.CreateSaleRequest{StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentInstallments,
				Items:        []dto.SaleItemRequest{item("p1", "st1", 1, "25")},
				Installments: []dto.InstallmentPlanRequest{{Number: 1, Amount: dec("-1"), DueDate: fixedNow}}},
			want: domain.ErrInvalidInput,
		},
		{
			name: "a plazo sin parcelas",
			in:   dto.CreateSaleRequest{StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentInstallments, Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}},
			want: domain.ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.uc.Create(context.Background(), "", tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Equal(t, 10, e.quantity(t, "st1"))
		})
	}
}

func TestCreate_ParcelaDeMontoCeroEsValida(t *testing.T) {
	e := newEnv(t)
	out, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentInstallments,
		Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")},
		Installments: []dto.InstallmentPlanRequest{
			{Number: 1, Amount: dec("25"), DueDate: fixedNow.AddDate(0, 1, 0)},
			{Number: 2, Amount: dec("0"), DueDate: fixedNow.AddDate(0, 2, 0)},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Installments, 2)
	assert.True(t, out.Installments[1].Amount.IsZero())
	assert.Equal(t, 9, e.quantity(t, "st1"))
}

func TestCreate_FiadoSinPlanGeneraParcelaUnicaA30Dias(t *testing.T) {
	e := newEnv(t)
	out, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentFiado,
		Items: []dto.SaleItemRequest{item("p2", "st2", 2, "8")},
	})
	require.NoError(t, err)
	require.Len(t, out.Installments, 1)
	inst := out.Installments[0]
	assert.Equal(t, 1, inst.Number)
	assert.True(t, inst.Amount.Equal(dec("16")))
	assert.Equal(t, entity.InstallmentPending, inst.Status)
	assert.True(t, inst.DueDate.Equal(fixedNow.AddDate(0, 0, 30)))
}

func TestCreate_PlanConEntradaPagada(t *testing.T) {
	e := newEnv(t)
	out, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentInstallments,
		Items: []dto.SaleItemRequest{item("p1", "st1", 2, "25")},
		Installments: []dto.InstallmentPlanRequest{
			{Number: 1, Amount: dec("20"), DueDate: fixedNow, IsDownPayment: true, IsPaid: true},
			{Number: 2, Amount: dec("30"), DueDate: fixedNow.AddDate(0, 1, 0)},
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Installments, 2)
	byNumber := map[int]dto.InstallmentResponse{}
	for _, i := range out.Installments {
		byNumber[i.Number] = i
	}
	assert.Equal(t, entity.InstallmentPaid, byNumber[1].Status)
	assert.Equal(t, entity.PaymentCash, byNumber[1].PaymentType)
	assert.Equal(t, "Entrada", byNumber[1].Notes)
	assert.Equal(t, entity.InstallmentPending, byNumber[2].Status)
}

func TestCreate_NumeroDeParcelaRepetidoEsDuplicado(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentInstallments,
		Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")},
		Installments: []dto.InstallmentPlanRequest{
			{Number: 1, Amount: dec("10"), DueDate: fixedNow},
			{Number: 1, Amount: dec("15"), DueDate: fixedNow},
		},
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, 10, e.quantity(t, "st1"))
}

func TestCreate_FalloDeCacheNoRevierteLaVenta(t *testing.T) {
	e := newEnv(t)
	e.cache.failWith = errors.New("redis caído")
	_, err := e.uc.Create(context.Background(), "", dto.CreateSaleRequest{
		StoreID: "s1", PaymentType: entity.PaymentCard,
		Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, e.quantity(t, "st1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

func TestCancel_ReponeStockYCancelaParcelasAbiertas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sale, err := e.uc.Create(ctx, "", dto.CreateSaleRequest{
		StoreID: "s1", CustomerID: "cu1", PaymentType: entity.PaymentInstallments,
		Items: []dto.SaleItemRequest{item("p1", "st1", 4, "25")},
		Installments: []dto.InstallmentPlanRequest{
			{Number: 1, Amount: dec("50"), DueDate: fixedNow, IsPaid: true},
			{Number: 2, Amount: dec("50"), DueDate: fixedNow.AddDate(0, 1, 0)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 6, e.quantity(t, "st1"))

	out, err := e.uc.Cancel(ctx, sale.ID, dto.CancelSaleRequest{Reason: "troca"})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCancelled, out.Status)
	assert.Contains(t, out.Notes, "troca")
	assert.Equal(t, 10, e.quantity(t, "st1"))

	statuses := map[int]string{}
	for _, i := range out.Installments {
		statuses[i.Number] = i.Status
	}
	assert.Equal(t, entity.InstallmentPaid, statuses[1])
	assert.Equal(t, entity.InstallmentCancelled, statuses[2])

	_, err = e.uc.Cancel(ctx, sale.ID, dto.CancelSaleRequest{})
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, 10, e.quantity(t, "st1"))
}

func TestCancel_VentaInexistente(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Cancel(context.Background(), "nope", dto.CancelSaleRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestReport_ExcluyeCanceladas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.uc.Create(ctx, "", dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{item("p1", "st1", 2, "25")}})
	require.NoError(t, err)
	_, err = e.uc.Create(ctx, "", dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentPix, Items: []dto.SaleItemRequest{item("p2", "st2", 1, "8")}})
	require.NoError(t, err)
	cancelled, err := e.uc.Create(ctx, "", dto.CreateSaleRequest{StoreID: "s1", PaymentType: entity.PaymentCash, Items: []dto.SaleItemRequest{item("p1", "st1", 1, "25")}})
	require.NoError(t, err)
	_, err = e.uc.Cancel(ctx, cancelled.ID, dto.CancelSaleRequest{})
	require.NoError(t, err)

	rep, err := e.uc.Report(ctx, dto.SaleFilter{StoreID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.TotalSales)
	assert.True(t, rep.TotalRevenue.Equal(dec("58")), "revenue %s", rep.TotalRevenue)
	assert.Equal(t, 1, rep.PaymentTypeBreakdown[entity.PaymentCash].Count)
	require.NotEmpty(t, rep.TopProducts)
	assert.Equal(t, "p1", rep.TopProducts[0].ProductID)

	byCustomer, err := e.uc.List(ctx, dto.SaleFilter{StoreID: "s1", Status: entity.SaleStatusCancelled})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)
}
