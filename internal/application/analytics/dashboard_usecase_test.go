package analytics

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
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
)

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Março 2026", monthLabel(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Dezembro 2025", monthLabel(time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)))
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 16, 0, 0, 0, time.UTC)
	db := memory.NewDB()

	require.NoError(t, memory.NewCompanyRepository(db).Create(ctx, &entity.Company{ID: "c1", Name: "Rede", CNPJ: "1"}))
	stores := memory.NewStoreRepository(db)
	require.NoError(t, stores.Create(ctx, &entity.Store{ID: "s1", CompanyID: "c1", Name: "Centro", IsActive: true}))
	products := memory.NewProductRepository(db)
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p1", Name: "Arroz", IsActive: true}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p2", Name: "Feijão", IsActive: true}))
	stock := memory.NewStockItemRepository(db)
	require.NoError(t, stock.Create(ctx, &entity.StockItem{ID: "st1", ProductID: "p1", StoreID: "s1", Quantity: 1, MinQuantity: 5, IsActive: true}))
	require.NoError(t, stock.Create(ctx, &entity.StockItem{ID: "st2", ProductID: "p2", StoreID: "s1", Quantity: 50, MinQuantity: 5, IsActive: true}))
	require.NoError(t, memory.NewCustomerRepository(db).Create(ctx, &entity.Customer{ID: "cu1", StoreID: "s1", Name: "Ana", IsActive: true}))

	sales := memory.NewSaleRepository(db)
	sale := func(id string, at time.Time, total int64, status string, productID string, qty int) {
		require.NoError(t, sales.Create(ctx, &entity.Sale{
			ID: id, StoreID: "s1", CustomerID: "cu1", Total: decimal.NewFromInt(total), PaymentType: entity.PaymentCash,
			Status: status, CreatedAt: at,
			Items: []entity.SaleItem{{ID: id + "-1", SaleID: id, ProductID: productID, StockItemID: "st1", Quantity: qty, Price: decimal.NewFromInt(total / int64(qty)), Total: decimal.NewFromInt(total)}},
		}))
	}
	sale("hoy", now.Add(-2*time.Hour), 30, entity.SaleStatusCompleted, "p1", 3)
	sale("mes", now.AddDate(0, 0, -10), 100, entity.SaleStatusCompleted, "p2", 10)
	sale("cancelada", now.Add(-time.Hour), 500, entity.SaleStatusCancelled, "p1", 50)
	sale("mes-pasado", now.AddDate(0, -1, 0), 70, entity.SaleStatusCompleted, "p1", 7)

	insts := memory.NewInstallmentRepository(db)
	require.NoError(t, insts.Create(ctx, &entity.Installment{ID: "i1", SaleID: "mes", CustomerID: "cu1", Number: 1, Amount: decimal.NewFromInt(40), DueDate: now.AddDate(0, 0, -1), Status: entity.InstallmentOverdue}))
	require.NoError(t, insts.Create(ctx, &entity.Installment{ID: "i2", SaleID: "mes", CustomerID: "cu1", Number: 2, Amount: decimal.NewFromInt(60), DueDate: now.AddDate(0, 1, 0), Status: entity.InstallmentPending}))

	uc := NewDashboardUseCase(memory.NewAnalyticsRepository(db), stores, stock, products, insts).
		WithClock(func() time.Time { return now })

	out, err := uc.GetSummary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, out.TodaySales.Count)
	assert.True(t, out.TodaySales.Total.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 2, out.MonthSales.Count)
	assert.True(t, out.MonthSales.Total.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, 1, out.LowStockCount)
	require.Len(t, out.LowStockItems, 1)
	assert.Equal(t, "st1", out.LowStockItems[0].ID)
	assert.Equal(t, 1, out.DueInstallmentsCount)
	assert.True(t, out.DueInstallmentsAmount.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 1, out.CustomersCount)
	require.Len(t, out.TopProducts, 2)
	assert.Equal(t, "p2", out.TopProducts[0].ProductID)
	assert.Equal(t, "Março 2026", out.DateLabel)

	_, err = uc.GetSummary(ctx, "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
