package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/varejo-api/internal/application/analytics"
	"github.com/jhoicas/varejo-api/internal/application/auth"
	"github.com/jhoicas/varejo-api/internal/application/installments"
	"github.com/jhoicas/varejo-api/internal/application/inventory"
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/application/usecase"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	StoreUC       *usecase.StoreUseCase
	ProductUC     *usecase.ProductUseCase
	CustomerUC    *usecase.CustomerUseCase
	StockUC       *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	SaleUC        *sales.SaleUseCase
	ReceiptUC     *sales.ReceiptUseCase
	InstallmentUC *installments.InstallmentUseCase
	DashboardUC   *analytics.DashboardUseCase
	AuthUC        *auth.AuthUseCase
	// JWTSecret vacío deja la API abierta (desarrollo).
	JWTSecret string
}

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name        string
	Development bool
	FrontendURL string
	Log         *logger.Logger
}

// NewApp crea la aplicación Fiber con middlewares y ErrorHandler global.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: NewErrorHandler(log, cfg.Development),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.FrontendURL,
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: cfg.FrontendURL != "*",
		}))
	}
	app.Use(AccessLog(log.Component("http")))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth y companies (públicos)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)

	// Rutas protegidas (requieren Bearer Token cuando hay secret)
	var guard []fiber.Handler
	var managers []fiber.Handler
	if deps.JWTSecret != "" {
		guard = append(guard, AuthMiddleware(deps.JWTSecret))
		managers = append(managers, RequireRole(entity.RoleAdmin, entity.RoleManager))
	}
	group := func(prefix string) fiber.Router {
		return api.Group(prefix, guard...)
	}

	stores := group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC, deps.DashboardUC)
	stores.Get("/", storeHandler.List)
	stores.Post("/", storeHandler.Create)
	stores.Get("/:id/dashboard", storeHandler.Dashboard)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", storeHandler.Update)
	stores.Delete("/:id", storeHandler.Delete)

	products := group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	stock := group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Replenishment)
	stock.Get("/", stockHandler.List)
	stock.Get("/search", stockHandler.Search)
	stock.Get("/low-stock", stockHandler.LowStock)
	stock.Get("/report", stockHandler.Report)
	stock.Get("/store/:storeId/replenishment", stockHandler.Replenishment)
	stock.Get("/product/:productId/store/:storeId", stockHandler.GetByProductAndStore)
	stock.Get("/:id", stockHandler.GetByID)
	stock.Post("/", stockHandler.Create)
	stock.Put("/:id", stockHandler.Update)
	stock.Patch("/:id/quantity", stockHandler.AdjustQuantity)
	stock.Delete("/:id", stockHandler.Delete)

	customers := group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Get("/search", customerHandler.Search)
	customers.Get("/:id/balance", customerHandler.Balance)
	customers.Get("/:id/sales", customerHandler.Sales)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Post("/", customerHandler.Create)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	salesGroup := group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/report", saleHandler.Report)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Patch("/:id/cancel", saleHandler.Cancel)

	insts := group("/installments")
	instHandler := NewInstallmentHandler(deps.InstallmentUC)
	insts.Get("/", instHandler.List)
	insts.Get("/overdue", instHandler.Overdue)
	insts.Get("/report", instHandler.Report)
	insts.Get("/customer/:customerId", instHandler.ByCustomer)
	insts.Get("/:id", instHandler.GetByID)
	insts.Post("/", instHandler.Create)
	insts.Patch("/update-overdue", append(managers, instHandler.UpdateOverdue)...)
	insts.Put("/:id", instHandler.Update)
	insts.Patch("/:id/pay", instHandler.Pay)
	insts.Patch("/:id/cancel", instHandler.Cancel)
}
