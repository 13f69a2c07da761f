package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/application/usecase"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/infrastructure/cache"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// ─── Helpers de test ──────────────────────────────────────────────────────────

type suite struct {
	db        *memory.DB
	companies *usecase.CompanyUseCase
	stores    *usecase.StoreUseCase
	products  *usecase.ProductUseCase
	customers *usecase.CustomerUseCase
}

func newSuite() *suite {
	db := memory.NewDB()
	companyRepo := memory.NewCompanyRepository(db)
	storeRepo := memory.NewStoreRepository(db)
	productRepo := memory.NewProductRepository(db)
	stockRepo := memory.NewStockItemRepository(db)
	customerRepo := memory.NewCustomerRepository(db)
	installmentRepo := memory.NewInstallmentRepository(db)
	saleUC := sales.NewSaleUseCase(memory.NewTxRunner(db), sales.Repos{
		Stores:       storeRepo,
		Customers:    customerRepo,
		Users:        memory.NewUserRepository(db),
		Products:     productRepo,
		StockItems:   stockRepo,
		Sales:        memory.NewSaleRepository(db),
		Installments: installmentRepo,
	}, cache.NoopStoreCache{}, logger.Nop())
	return &suite{
		db:        db,
		companies: usecase.NewCompanyUseCase(companyRepo, storeRepo),
		stores:    usecase.NewStoreUseCase(storeRepo, companyRepo),
		products:  usecase.NewProductUseCase(productRepo, stockRepo, storeRepo),
		customers: usecase.NewCustomerUseCase(customerRepo, storeRepo, installmentRepo, saleUC),
	}
}

func (s *suite) store(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	c, err := s.companies.Create(ctx, dto.CreateCompanyRequest{Name: "Rede Sul", CNPJ: "11222333000181"})
	require.NoError(t, err)
	st, err := s.stores.Create(ctx, dto.CreateStoreRequest{CompanyID: c.ID, Name: "Loja 1"})
	require.NoError(t, err)
	return st.ID
}

// sellTo registra directamente en el repositorio una venta que referencia producto y cliente.
func (s *suite) sellTo(t *testing.T, storeID, productID, customerID string) {
	t.Helper()
	require.NoError(t, memory.NewSaleRepository(s.db).Create(context.Background(), &entity.Sale{
		ID: "sale-" + productID, StoreID: storeID, CustomerID: customerID, Total: decimal.NewFromInt(10),
		PaymentType: entity.PaymentCash, Status: entity.SaleStatusCompleted, CreatedAt: time.Now(),
		Items: []entity.SaleItem{{ID: "it-" + productID, SaleID: "sale-" + productID, ProductID: productID, StockItemID: "st", Quantity: 1, Price: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)}},
	}))
}

// ─── Company / Store ──────────────────────────────────────────────────────────

func TestCompany_CNPJDuplicado(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	_, err := s.companies.Create(ctx, dto.CreateCompanyRequest{Name: "A", CNPJ: "11222333000181"})
	require.NoError(t, err)
	_, err = s.companies.Create(ctx, dto.CreateCompanyRequest{Name: "B", CNPJ: " 11222333000181 "})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
}

func TestStore_RequiereEmpresaYBorradoEsLogico(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	_, err := s.stores.Create(ctx, dto.CreateStoreRequest{CompanyID: "nope", Name: "X"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	storeID := s.store(t)
	require.NoError(t, s.stores.Delete(ctx, storeID))

	got, err := s.stores.GetByID(ctx, storeID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active := true
	list, err := s.stores.List(ctx, &active)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ─── Product ──────────────────────────────────────────────────────────────────

func TestProduct_BarcodeUnicoYUnidadPorDefecto(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	p, err := s.products.Create(ctx, dto.CreateProductRequest{Name: "Leite 1L", Barcode: "789100"})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultUnit, p.Unit)

	_, err = s.products.Create(ctx, dto.CreateProductRequest{Name: "Outro", Barcode: "789100"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	got, err := s.products.GetByBarcode(ctx, "789100")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProduct_DeleteLogicoSiTieneVentas(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	storeID := s.store(t)
	used, err := s.products.Create(ctx, dto.CreateProductRequest{Name: "Vendido"})
	require.NoError(t, err)
	unused, err := s.products.Create(ctx, dto.CreateProductRequest{Name: "Nunca vendido"})
	require.NoError(t, err)
	s.sellTo(t, storeID, used.ID, "")

	soft, err := s.products.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, soft)
	got, err := s.products.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	soft, err = s.products.Delete(ctx, unused.ID)
	require.NoError(t, err)
	assert.False(t, soft)
	_, err = s.products.GetByID(ctx, unused.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ─── Customer ─────────────────────────────────────────────────────────────────

func TestCustomer_CPFUnicoPorLoja(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	storeID := s.store(t)
	_, err := s.customers.Create(ctx, dto.CreateCustomerRequest{StoreID: storeID, Name: "Ana", CPF: "12345678901"})
	require.NoError(t, err)
	_, err = s.customers.Create(ctx, dto.CreateCustomerRequest{StoreID: storeID, Name: "Outra Ana", CPF: "12345678901"})
	assert.True(t, errors.Is(err, domain.ErrDuplicate))

	_, err = s.customers.Create(ctx, dto.CreateCustomerRequest{StoreID: "nope", Name: "Sem loja"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCustomer_BalanceCuentaPendientesYVencidas(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	storeID := s.store(t)
	c, err := s.customers.Create(ctx, dto.CreateCustomerRequest{StoreID: storeID, Name: "Bia"})
	require.NoError(t, err)

	s.sellTo(t, storeID, "px", c.ID)
	repo := memory.NewInstallmentRepository(s.db)
	now := time.Now()
	for _, i := range []*entity.Installment{
		{ID: "a", SaleID: "sale-px", CustomerID: c.ID, Number: 1, Amount: decimal.NewFromInt(30), DueDate: now.AddDate(0, 0, -3), Status: entity.InstallmentOverdue},
		{ID: "b", SaleID: "sale-px", CustomerID: c.ID, Number: 2, Amount: decimal.NewFromInt(40), DueDate: now.AddDate(0, 0, 10), Status: entity.InstallmentPending},
		{ID: "c", SaleID: "sale-px", CustomerID: c.ID, Number: 3, Amount: decimal.NewFromInt(50), DueDate: now.AddDate(0, 0, -30), Status: entity.InstallmentPaid},
		{ID: "d", SaleID: "sale-px", CustomerID: c.ID, Number: 4, Amount: decimal.NewFromInt(60), DueDate: now, Status: entity.InstallmentCancelled},
	} {
		require.NoError(t, repo.Create(ctx, i))
	}

	bal, err := s.customers.Balance(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, bal.TotalDebt.Equal(decimal.NewFromInt(70)))
	assert.True(t, bal.OverdueAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, bal.PaidAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 2, bal.OpenInstallments)
	assert.Equal(t, 1, bal.OverdueInstallments)
}

func TestCustomer_DeleteLogicoSiTieneVentas(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	storeID := s.store(t)
	c, err := s.customers.Create(ctx, dto.CreateCustomerRequest{StoreID: storeID, Name: "Caio", CPF: "98765432100"})
	require.NoError(t, err)
	s.sellTo(t, storeID, "p-any", c.ID)

	soft, err := s.customers.Delete(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, soft)

	// Desactivado libera el CPF para un nuevo cadastro.
	_, err = s.customers.Create(ctx, dto.CreateCustomerRequest{StoreID: storeID, Name: "Caio Novo", CPF: "98765432100"})
	assert.NoError(t, err)
}
