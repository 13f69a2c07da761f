package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// ─── Helpers de test ──────────────────────────────────────────────────────────

func seedStock(t *testing.T, db *DB, qty int) (*entity.Store, *entity.StockItem) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, NewCompanyRepository(db).Create(ctx, &entity.Company{ID: "c1", Name: "Rede", CNPJ: "1", CreatedAt: now}))
	store := &entity.Store{ID: "s1", CompanyID: "c1", Name: "Centro", IsActive: true, CreatedAt: now}
	require.NoError(t, NewStoreRepository(db).Create(ctx, store))
	require.NoError(t, NewProductRepository(db).Create(ctx, &entity.Product{ID: "p1", Name: "Pão de Queijo", Unit: "un", IsActive: true}))
	item := &entity.StockItem{ID: "st1", ProductID: "p1", StoreID: "s1", Quantity: qty, MinQuantity: 2, SalePrice: decimal.NewFromInt(5), IsActive: true}
	require.NoError(t, NewStockItemRepository(db).Create(ctx, item))
	return store, item
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestFold_IgnoraAcentosYMayusculas(t *testing.T) {
	assert.Equal(t, "pao de queijo", fold("Pão de Queijo"))
	assert.True(t, matches("PAO", "Pão de Queijo"))
	assert.True(t, matches("açai", "Acaí Premium"))
	assert.False(t, matches("cafe", "Leite"))
}

func TestStockItemRepo_SearchPorNombreDeProducto(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 10)

	list, err := NewStockItemRepository(db).Search(context.Background(), "s1", "pao")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "st1", list[0].ID)
}

func TestStockItemRepo_DecrementNoDejaNegativo(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 3)
	repo := NewStockItemRepository(db)
	ctx := context.Background()

	err := repo.Decrement(ctx, "st1", 4)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	require.NoError(t, repo.Decrement(ctx, "st1", 3))
	it, _ := repo.GetByID(ctx, "st1")
	assert.Equal(t, 0, it.Quantity)
}

func TestStockItemRepo_CreateDuplicadoPorProductoYLoja(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 3)

	err := NewStockItemRepository(db).Create(context.Background(), &entity.StockItem{ID: "st2", ProductID: "p1", StoreID: "s1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestTxRunner_RollbackRestauraEstado(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 10)
	runner := NewTxRunner(db)
	ctx := context.Background()
	boom := errors.New("falla en medio de la venta")

	err := runner.RunSale(ctx, func(stockRepo repository.StockItemRepository, saleRepo repository.SaleRepository, _ repository.InstallmentRepository) error {
		require.NoError(t, stockRepo.Decrement(ctx, "st1", 4))
		require.NoError(t, saleRepo.Create(ctx, &entity.Sale{ID: "v1", StoreID: "s1", Status: entity.SaleStatusCompleted}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	it, _ := NewStockItemRepository(db).GetByID(ctx, "st1")
	assert.Equal(t, 10, it.Quantity, "el stock debe volver al valor previo")
	sale, _ := NewSaleRepository(db).GetByID(ctx, "v1")
	assert.Nil(t, sale, "la venta no debe quedar persistida")
}

func TestSaleRepo_CancelDosVecesDaConflicto(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 10)
	repo := NewSaleRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Sale{ID: "v1", StoreID: "s1", Status: entity.SaleStatusCompleted}))

	require.NoError(t, repo.Cancel(ctx, "v1", "Cancelada", time.Now()))
	assert.ErrorIs(t, repo.Cancel(ctx, "v1", "Cancelada", time.Now()), domain.ErrConflict)
}

func TestInstallmentRepo_MarkOverdueSoloPendientesVencidas(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 10)
	ctx := context.Background()
	require.NoError(t, NewSaleRepository(db).Create(ctx, &entity.Sale{ID: "v1", StoreID: "s1", Status: entity.SaleStatusCompleted}))
	repo := NewInstallmentRepository(db)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)
	for _, i := range []*entity.Installment{
		{ID: "i1", SaleID: "v1", Number: 1, Amount: decimal.NewFromInt(10), DueDate: past, Status: entity.InstallmentPending},
		{ID: "i2", SaleID: "v1", Number: 2, Amount: decimal.NewFromInt(10), DueDate: future, Status: entity.InstallmentPending},
		{ID: "i3", SaleID: "v1", Number: 3, Amount: decimal.NewFromInt(10), DueDate: past, Status: entity.InstallmentPaid},
	} {
		require.NoError(t, repo.Create(ctx, i))
	}

	n, err := repo.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	i1, _ := repo.GetByID(ctx, "i1")
	i2, _ := repo.GetByID(ctx, "i2")
	i3, _ := repo.GetByID(ctx, "i3")
	assert.Equal(t, entity.InstallmentOverdue, i1.Status)
	assert.Equal(t, entity.InstallmentPending, i2.Status)
	assert.Equal(t, entity.InstallmentPaid, i3.Status)
}

func TestStockItemRepo_UpdateNoTocaCantidad(t *testing.T) {
	db := NewDB()
	_, item := seedStock(t, db, 10)
	repo := NewStockItemRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Decrement(ctx, "st1", 3))
	item.SalePrice = decimal.NewFromInt(6)
	require.NoError(t, repo.Update(ctx, item)) // item todavía dice 10

	got, err := repo.GetByID(ctx, "st1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
	assert.True(t, got.SalePrice.Equal(decimal.NewFromInt(6)))

	require.NoError(t, repo.SetQuantity(ctx, "st1", 4, time.Now()))
	got, _ = repo.GetByID(ctx, "st1")
	assert.Equal(t, 4, got.Quantity)
	assert.ErrorIs(t, repo.SetQuantity(ctx, "st1", -1, time.Now()), domain.ErrInsufficientStock)
	assert.ErrorIs(t, repo.SetQuantity(ctx, "nope", 1, time.Now()), domain.ErrNotFound)
}

func TestInstallmentRepo_UpdateIfStatusComparaEstado(t *testing.T) {
	db := NewDB()
	seedStock(t, db, 10)
	ctx := context.Background()
	require.NoError(t, NewSaleRepository(db).Create(ctx, &entity.Sale{ID: "v1", StoreID: "s1", Status: entity.SaleStatusCompleted}))
	repo := NewInstallmentRepository(db)
	require.NoError(t, repo.Create(ctx, &entity.Installment{ID: "i1", SaleID: "v1", Number: 1, Amount: decimal.NewFromInt(10), Status: entity.InstallmentPending}))

	paid, _ := repo.GetByID(ctx, "i1")
	paid.Status = entity.InstallmentPaid
	ok, err := repo.UpdateIfStatus(ctx, paid, entity.InstallmentPending)
	require.NoError(t, err)
	assert.True(t, ok)

	// Una segunda escritura basada en la lectura vieja no pisa el pago.
	stale := *paid
	stale.Status = entity.InstallmentCancelled
	ok, err = repo.UpdateIfStatus(ctx, &stale, entity.InstallmentPending)
	require.NoError(t, err)
	assert.False(t, ok)

	got, _ := repo.GetByID(ctx, "i1")
	assert.Equal(t, entity.InstallmentPaid, got.Status)

	ok, err = repo.UpdateIfStatus(ctx, &entity.Installment{ID: "nope"}, entity.InstallmentPending)
	require.NoError(t, err)
	assert.False(t, ok)
}
