package inventory_test

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
	"github.com/jhoicas/varejo-api/internal/application/inventory"
	"github.com/jhoicas/varejo-api/internal/application/ports"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/internal/infrastructure/cache"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// ─── Helpers de test ──────────────────────────────────────────────────────────

func seed(t *testing.T) *memory.DB {
	t.Helper()
	ctx := context.Background()
	db := memory.NewDB()
	now := time.Now()
	require.NoError(t, memory.NewCompanyRepository(db).Create(ctx, &entity.Company{ID: "c1", Name: "Rede", CNPJ: "1", CreatedAt: now}))
	require.NoError(t, memory.NewStoreRepository(db).Create(ctx, &entity.Store{ID: "s1", CompanyID: "c1", Name: "Centro", IsActive: true, CreatedAt: now}))
	products := memory.NewProductRepository(db)
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p1", Name: "Café 500g", Unit: "un", IsActive: true}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p2", Name: "Açúcar 1kg", Unit: "un", IsActive: true}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p3", Name: "Sal 1kg", Unit: "un", IsActive: true}))
	return db
}

func newStockUC(db *memory.DB, c ports.StoreCache) *inventory.StockUseCase {
	return inventory.NewStockUseCase(
		memory.NewTxRunner(db),
		memory.NewStockItemRepository(db),
		memory.NewProductRepository(db),
		memory.NewStoreRepository(db),
		c,
		logger.Nop(),
	)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ─── StockUseCase ─────────────────────────────────────────────────────────────

func TestStockCreate_UnoPorProductoYLoja(t *testing.T) {
	db := seed(t)
	uc := newStockUC(db, cache.NoopStoreCache{})
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 5, MinQuantity: 2, PurchasePrice: dec("10"), SalePrice: dec("15")})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Quantity)
	require.NotNil(t, out.Product)
	assert.Equal(t, "Café 500g", out.Product.Name)

	_, err = uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "nope", StoreID: "s1"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAdjustQuantity_Operaciones(t *testing.T) {
	db := seed(t)
	uc := newStockUC(db, cache.NoopStoreCache{})
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 10})
	require.NoError(t, err)

	out, err := uc.AdjustQuantity(ctx, item.ID, dto.AdjustQuantityRequest{Operation: "add", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 15, out.Quantity)

	out, err = uc.AdjustQuantity(ctx, item.ID, dto.AdjustQuantityRequest{Operation: "subtract", Quantity: 15})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Quantity)

	_, err = uc.AdjustQuantity(ctx, item.ID, dto.AdjustQuantityRequest{Operation: "subtract", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	out, err = uc.AdjustQuantity(ctx, item.ID, dto.AdjustQuantityRequest{Operation: "set", Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, out.Quantity)

	_, err = uc.AdjustQuantity(ctx, "nope", dto.AdjustQuantityRequest{Operation: "add", Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListByStore_CacheSeInvalidaTrasEscritura(t *testing.T) {
	db := seed(t)
	uc := newStockUC(db, cache.NewMemoryStoreCache(time.Minute))
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 10, MinQuantity: 3})
	require.NoError(t, err)

	list, err := uc.ListByStore(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 10, list[0].Quantity)

	// Escritura directa al repositorio: la caché todavía sirve el valor anterior.
	stored, err := memory.NewStockItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NoError(t, memory.NewStockItemRepository(db).SetQuantity(ctx, stored.ID, 1, time.Now()))
	list, err = uc.ListByStore(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 10, list[0].Quantity)

	// Un ajuste por el caso de uso invalida la loja.
	_, err = uc.AdjustQuantity(ctx, item.ID, dto.AdjustQuantityRequest{Operation: "add", Quantity: 1})
	require.NoError(t, err)
	list, err = uc.ListByStore(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, list[0].Quantity)

	low, err := uc.LowStock(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestReport_Valorizacion(t *testing.T) {
	db := seed(t)
	uc := newStockUC(db, cache.NoopStoreCache{})
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 4, MinQuantity: 1, PurchasePrice: dec("10"), SalePrice: dec("15")})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p2", StoreID: "s1", Quantity: 0, MinQuantity: 2, PurchasePrice: dec("3"), SalePrice: dec("5")})
	require.NoError(t, err)

	rep, err := uc.Report(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, rep.TotalItems)
	assert.Equal(t, 4, rep.TotalQuantity)
	assert.True(t, rep.TotalValue.Equal(dec("40")))
	assert.True(t, rep.TotalSaleValue.Equal(dec("60")))
	assert.Equal(t, 1, rep.LowStockCount)
	assert.Equal(t, 1, rep.OutOfStockCount)
}

func TestStockCreate_ValoresNegativosSonValidacion(t *testing.T) {
	db := seed(t)
	uc := newStockUC(db, cache.NoopStoreCache{})
	_, err := uc.Create(context.Background(), dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: -1, SalePrice: dec("-2")})
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestStockUpdate_Parcial(t *testing.T) {
	ptr := func(v int) *int { return &v }
	price := func(v string) *decimal.Decimal { d := dec(v); return &d }

	tests := []struct {
		name    string
		in      dto.UpdateStockItemRequest
		wantErr error
		check   func(t *testing.T, out *dto.StockItemResponse)
	}{
		{
			name: "solo precio de venta",
			in:   dto.UpdateStockItemRequest{SalePrice: price("19.90")},
			check: func(t *testing.T, out *dto.StockItemResponse) {
				assert.True(t, out.SalePrice.Equal(dec("19.90")))
				assert.True(t, out.PurchasePrice.Equal(dec("10")), "lo no enviado se conserva")
				assert.Equal(t, 10, out.Quantity)
				assert.Equal(t, 2, out.MinQuantity)
			},
		},
		{
			name: "umbrales y cantidad",
			in:   dto.UpdateStockItemRequest{Quantity: ptr(4), MinQuantity: ptr(3), MaxQuantity: ptr(12)},
			check: func(t *testing.T, out *dto.StockItemResponse) {
				assert.Equal(t, 4, out.Quantity)
				assert.Equal(t, 3, out.MinQuantity)
				require.NotNil(t, out.MaxQuantity)
				assert.Equal(t, 12, *out.MaxQuantity)
			},
		},
		{
			name:    "max menor que min",
			in:      dto.UpdateStockItemRequest{MinQuantity: ptr(8), MaxQuantity: ptr(5)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "max menor que el min vigente",
			in:      dto.UpdateStockItemRequest{MaxQuantity: ptr(1)},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "precio negativo",
			in:      dto.UpdateStockItemRequest{PurchasePrice: price("-1")},
			wantErr: domain.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := seed(t)
			uc := newStockUC(db, cache.NoopStoreCache{})
			ctx := context.Background()
			item, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 10, MinQuantity: 2, PurchasePrice: dec("10"), SalePrice: dec("15")})
			require.NoError(t, err)

			out, err := uc.Update(ctx, item.ID, tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				stored, _ := memory.NewStockItemRepository(db).GetByID(ctx, item.ID)
				assert.Equal(t, 2, stored.MinQuantity, "un rechazo no deja cambios")
				return
			}
			require.NoError(t, err)
			tt.check(t, out)
		})
	}

	t.Run("item inexistente", func(t *testing.T) {
		uc := newStockUC(seed(t), cache.NoopStoreCache{})
		_, err := uc.Update(context.Background(), "nope", dto.UpdateStockItemRequest{MinQuantity: ptr(1)})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

// saleDuringLock simula una venta que descuenta stock justo después de que
// la edición leyó la fila.
type saleDuringLock struct {
	inner *memory.TxRunner
	db    *memory.DB
	qty   int
	once  sync.Once
	err   error
}

func (r *saleDuringLock) Run(ctx context.Context, fn func(repository.StockItemRepository) error) error {
	return r.inner.Run(ctx, func(stockRepo repository.StockItemRepository) error {
		return fn(lockHook{StockItemRepository: stockRepo, after: func(id string) {
			r.once.Do(func() { r.err = memory.NewStockItemRepository(r.db).Decrement(ctx, id, r.qty) })
		}})
	})
}

type lockHook struct {
	repository.StockItemRepository
	after func(id string)
}

func (h lockHook) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	it, err := h.StockItemRepository.GetForUpdate(ctx, id)
	if err == nil && it != nil {
		h.after(id)
	}
	return it, err
}

func TestStockUpdate_EdicionDePrecioNoPisaVentaConcurrente(t *testing.T) {
	db := seed(t)
	ctx := context.Background()
	item, err := newStockUC(db, cache.NoopStoreCache{}).
		Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 10, PurchasePrice: dec("10"), SalePrice: dec("15")})
	require.NoError(t, err)

	tx := &saleDuringLock{inner: memory.NewTxRunner(db), db: db, qty: 3}
	uc := inventory.NewStockUseCase(tx, memory.NewStockItemRepository(db), memory.NewProductRepository(db),
		memory.NewStoreRepository(db), cache.NoopStoreCache{}, logger.Nop())

	newPrice := dec("17")
	out, err := uc.Update(ctx, item.ID, dto.UpdateStockItemRequest{SalePrice: &newPrice})
	require.NoError(t, err)
	require.NoError(t, tx.err)

	stored, err := memory.NewStockItemRepository(db).GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Quantity, "la venta de 3 unidades se mantiene")
	assert.True(t, stored.SalePrice.Equal(newPrice))
	assert.Equal(t, 7, out.Quantity)
}

func TestStockDelete_LogicoConVentasFisicoSinVentas(t *testing.T) {
	db := seed(t)
	uc := newStockUC(db, cache.NoopStoreCache{})
	ctx := context.Background()
	sold, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p1", StoreID: "s1", Quantity: 5})
	require.NoError(t, err)
	unsold, err := uc.Create(ctx, dto.CreateStockItemRequest{ProductID: "p2", StoreID: "s1", Quantity: 5})
	require.NoError(t, err)
	require.NoError(t, memory.NewSaleRepository(db).Create(ctx, &entity.Sale{
		ID: "v1", StoreID: "s1", Total: dec("15"), PaymentType: entity.PaymentCash, Status: entity.SaleStatusCompleted,
		Items: []entity.SaleItem{{ID: "vi1", SaleID: "v1", ProductID: "p1", StockItemID: sold.ID, Quantity: 1, Price: dec("15"), Total: dec("15")}},
	}))

	tests := []struct {
		name     string
		id       string
		wantSoft bool
	}{
		{name: "con ventas se desactiva", id: sold.ID, wantSoft: true},
		{name: "sin ventas se elimina", id: unsold.ID, wantSoft: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			soft, err := uc.Delete(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSoft, soft)

			stored, err := memory.NewStockItemRepository(db).GetByID(ctx, tt.id)
			require.NoError(t, err)
			if tt.wantSoft {
				require.NotNil(t, stored)
				assert.False(t, stored.IsActive)
				assert.Equal(t, 5, stored.Quantity)
			} else {
				assert.Nil(t, stored)
			}
		})
	}

	list, err := uc.ListByStore(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, list, "ninguno queda activo")

	_, err = uc.Delete(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ─── ReplenishmentUseCase ─────────────────────────────────────────────────────

type failingAnalytics struct{ repository.AnalyticsRepository }

func (failingAnalytics) TopProducts(context.Context, string, time.Time, time.Time, int) ([]repository.ProductSalesResult, error) {
	return nil, errors.New("sin historial")
}

func TestReplenishment_OrdenaPorMargenYSugiereCantidad(t *testing.T) {
	db := seed(t)
	ctx := context.Background()
	stock := memory.NewStockItemRepository(db)
	maxQty := 20
	require.NoError(t, stock.Create(ctx, &entity.StockItem{ID: "a", ProductID: "p1", StoreID: "s1", Quantity: 1, MinQuantity: 5, PurchasePrice: dec("8"), SalePrice: dec("10"), IsActive: true}))
	require.NoError(t, stock.Create(ctx, &entity.StockItem{ID: "b", ProductID: "p2", StoreID: "s1", Quantity: 2, MinQuantity: 4, MaxQuantity: &maxQty, PurchasePrice: dec("2"), SalePrice: dec("4"), IsActive: true}))
	require.NoError(t, stock.Create(ctx, &entity.StockItem{ID: "c", ProductID: "p3", StoreID: "s1", Quantity: 30, MinQuantity: 5, PurchasePrice: dec("1"), SalePrice: dec("2"), IsActive: true}))

	for _, analytics := range []repository.AnalyticsRepository{memory.NewAnalyticsRepository(db), failingAnalytics{}} {
		uc := inventory.NewReplenishmentUseCase(stock, memory.NewProductRepository(db), analytics, logger.Nop())
		out, err := uc.Suggestions(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, out, 2)

		assert.Equal(t, "b", out[0].StockItemID)
		assert.Equal(t, 1, out[0].Priority)
		assert.Equal(t, 20, out[0].TargetQuantity)
		assert.Equal(t, 18, out[0].SuggestedOrderQty)
		assert.True(t, out[0].EstimatedOrderCost.Equal(dec("36")))
		assert.True(t, out[0].GrossMarginPct.Equal(dec("50")))

		assert.Equal(t, "a", out[1].StockItemID)
		assert.Equal(t, 10, out[1].TargetQuantity)
		assert.Equal(t, 9, out[1].SuggestedOrderQty)
	}
}
