// Package bootstrap arma repositorios, casos de uso y dependencias HTTP
// para cmd/api, cmd/seed y los tests de punta a punta.
package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/varejo-api/internal/application/analytics"
	"github.com/jhoicas/varejo-api/internal/application/auth"
	"github.com/jhoicas/varejo-api/internal/application/installments"
	"github.com/jhoicas/varejo-api/internal/application/inventory"
	"github.com/jhoicas/varejo-api/internal/application/ports"
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/application/usecase"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/varejo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/varejo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/varejo-api/internal/interfaces/http"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// TxRunner transacciones de stock y de venta sobre el mismo almacenamiento.
type TxRunner interface {
	inventory.TxRunner
	sales.TxRunner
}

// Repositories implementaciones de los puertos de persistencia.
type Repositories struct {
	Companies    repository.CompanyRepository
	Stores       repository.StoreRepository
	Products     repository.ProductRepository
	StockItems   repository.StockItemRepository
	Customers    repository.CustomerRepository
	Users        repository.UserRepository
	Sales        repository.SaleRepository
	Installments repository.InstallmentRepository
	Analytics    repository.AnalyticsRepository
	Tx           TxRunner
}

// PostgresRepositories repositorios sobre el pool.
func PostgresRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Companies:    postgres.NewCompanyRepository(pool),
		Stores:       postgres.NewStoreRepository(pool),
		Products:     postgres.NewProductRepository(pool),
		StockItems:   postgres.NewStockItemRepository(pool),
		Customers:    postgres.NewCustomerRepository(pool),
		Users:        postgres.NewUserRepository(pool),
		Sales:        postgres.NewSaleRepository(pool),
		Installments: postgres.NewInstallmentRepository(pool),
		Analytics:    postgres.NewAnalyticsRepository(pool),
		Tx:           postgres.NewTxRunner(pool),
	}
}

// MemoryRepositories repositorios en memoria (desarrollo y tests).
func MemoryRepositories(db *memory.DB) Repositories {
	return Repositories{
		Companies:    memory.NewCompanyRepository(db),
		Stores:       memory.NewStoreRepository(db),
		Products:     memory.NewProductRepository(db),
		StockItems:   memory.NewStockItemRepository(db),
		Customers:    memory.NewCustomerRepository(db),
		Users:        memory.NewUserRepository(db),
		Sales:        memory.NewSaleRepository(db),
		Installments: memory.NewInstallmentRepository(db),
		Analytics:    memory.NewAnalyticsRepository(db),
		Tx:           memory.NewTxRunner(db),
	}
}

// UseCases todos los casos de uso de la aplicación.
type UseCases struct {
	Company       *usecase.CompanyUseCase
	Store         *usecase.StoreUseCase
	Product       *usecase.ProductUseCase
	Customer      *usecase.CustomerUseCase
	Stock         *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Sale          *sales.SaleUseCase
	Receipt       *sales.ReceiptUseCase
	Installment   *installments.InstallmentUseCase
	Dashboard     *analytics.DashboardUseCase
	Auth          *auth.AuthUseCase
}

// NewUseCases construye los casos de uso sobre r.
func NewUseCases(r Repositories, cache ports.StoreCache, log *logger.Logger, jwtCfg auth.JWTConfig) *UseCases {
	saleUC := sales.NewSaleUseCase(r.Tx, sales.Repos{
		Stores:       r.Stores,
		Customers:    r.Customers,
		Users:        r.Users,
		Products:     r.Products,
		StockItems:   r.StockItems,
		Sales:        r.Sales,
		Installments: r.Installments,
	}, cache, log)

	return &UseCases{
		Company:       usecase.NewCompanyUseCase(r.Companies, r.Stores),
		Store:         usecase.NewStoreUseCase(r.Stores, r.Companies),
		Product:       usecase.NewProductUseCase(r.Products, r.StockItems, r.Stores),
		Customer:      usecase.NewCustomerUseCase(r.Customers, r.Stores, r.Installments, saleUC),
		Stock:         inventory.NewStockUseCase(r.Tx, r.StockItems, r.Products, r.Stores, cache, log),
		Replenishment: inventory.NewReplenishmentUseCase(r.StockItems, r.Products, r.Analytics, log),
		Sale:          saleUC,
		Receipt: sales.NewReceiptUseCase(sales.Repos{
			Stores:       r.Stores,
			Customers:    r.Customers,
			Products:     r.Products,
			Sales:        r.Sales,
			Installments: r.Installments,
		}, r.Companies, infrapdf.NewMarotoReceiptGenerator()),
		Installment: installments.NewInstallmentUseCase(r.Installments, r.Sales, r.Customers, log),
		Dashboard:   analytics.NewDashboardUseCase(r.Analytics, r.Stores, r.StockItems, r.Products, r.Installments),
		Auth:        auth.NewAuthUseCase(r.Users, r.Stores, jwtCfg),
	}
}

// RouterDeps dependencias del router HTTP.
func (u *UseCases) RouterDeps(jwtSecret string) httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		CompanyUC:     u.Company,
		StoreUC:       u.Store,
		ProductUC:     u.Product,
		CustomerUC:    u.Customer,
		StockUC:       u.Stock,
		Replenishment: u.Replenishment,
		SaleUC:        u.Sale,
		ReceiptUC:     u.Receipt,
		InstallmentUC: u.Installment,
		DashboardUC:   u.Dashboard,
		AuthUC:        u.Auth,
		JWTSecret:     jwtSecret,
	}
}
