// seed carga una empresa de demostración con tres lojas, catálogo, stock,
// un administrador por loja y algunas ventas, usando los mismos casos de uso que la API.
//
// Uso: go run ./cmd/seed
// Con DB_DRIVER=postgres se recomienda DB_AUTO_MIGRATE=true en la primera ejecución.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/auth"
	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/bootstrap"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/pkg/config"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

const demoCNPJ = "12345678000190"

type demoProduct struct {
	name, brand, category, barcode string
	purchase, sale                 string
	qty, min                       int
}

var catalog = []demoProduct{
	{"Arroz Tipo 1 5kg", "Camil", "Mercearia", "7896006711117", "18.90", "24.90", 40, 10},
	{"Feijão Carioca 1kg", "Kicaldo", "Mercearia", "7896116900029", "6.20", "8.99", 60, 15},
	{"Café Torrado 500g", "Pilão", "Bebidas", "7896089011982", "12.50", "17.49", 25, 8},
	{"Açúcar Refinado 1kg", "União", "Mercearia", "7891910000197", "3.80", "5.29", 50, 12},
	{"Óleo de Soja 900ml", "Liza", "Mercearia", "7896036090244", "5.90", "7.99", 30, 10},
	{"Leite Integral 1L", "Italac", "Laticínios", "7898080640017", "3.95", "5.49", 6, 20},
	{"Sabão em Pó 1kg", "Omo", "Limpeza", "7891150047457", "11.40", "15.90", 18, 6},
	{"Papel Higiênico 12un", "Neve", "Higiene", "7891172422157", "14.00", "19.90", 3, 5},
}

var storeNames = []string{"Loja Centro", "Loja Bairro Novo", "Loja Shopping"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repos, closeDB, err := bootstrap.OpenRepositories(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer closeDB()

	storeCache, closeCache := bootstrap.NewStoreCache(ctx, cfg.Redis, log)
	defer closeCache()

	ucs := bootstrap.NewUseCases(repos, storeCache, log, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if err := seed(ctx, ucs, log); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			log.Warn().Err(err).Msg("datos de demostración ya cargados")
			return
		}
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Msg("seed completado")
}

func seed(ctx context.Context, ucs *bootstrap.UseCases, log *logger.Logger) error {
	company, err := ucs.Company.Create(ctx, dto.CreateCompanyRequest{
		Name:    "Rede Varejo Demo",
		CNPJ:    demoCNPJ,
		Email:   "contato@varejodemo.com.br",
		Phone:   "(11) 4002-8922",
		Address: "Av. Paulista, 1000 - São Paulo/SP",
	})
	if err != nil {
		return fmt.Errorf("empresa: %w", err)
	}

	productIDs := make([]string, 0, len(catalog))
	for _, p := range catalog {
		out, err := ucs.Product.Create(ctx, dto.CreateProductRequest{
			Name: p.name, Brand: p.brand, Category: p.category, Barcode: p.barcode,
		})
		if err != nil {
			return fmt.Errorf("producto %s: %w", p.name, err)
		}
		productIDs = append(productIDs, out.ID)
	}

	for i, name := range storeNames {
		store, err := ucs.Store.Create(ctx, dto.CreateStoreRequest{CompanyID: company.ID, Name: name})
		if err != nil {
			return fmt.Errorf("loja %s: %w", name, err)
		}
		storeLog := log.Component("seed").Zerolog().With().Str("store_id", store.ID).Logger()

		stockIDs := make([]string, 0, len(catalog))
		for j, p := range catalog {
			item, err := ucs.Stock.Create(ctx, dto.CreateStockItemRequest{
				ProductID:     productIDs[j],
				StoreID:       store.ID,
				Quantity:      p.qty * (i + 1),
				MinQuantity:   p.min,
				PurchasePrice: decimal.RequireFromString(p.purchase),
				SalePrice:     decimal.RequireFromString(p.sale),
			})
			if err != nil {
				return fmt.Errorf("stock %s en %s: %w", p.name, name, err)
			}
			stockIDs = append(stockIDs, item.ID)
		}

		admin, err := ucs.Auth.RegisterUser(ctx, dto.RegisterRequest{
			StoreID:  store.ID,
			Email:    fmt.Sprintf("admin%d@varejodemo.com.br", i+1),
			Password: "varejo123",
			Name:     "Administrador " + name,
			Role:     entity.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("usuario admin: %w", err)
		}

		customer, err := ucs.Customer.Create(ctx, dto.CreateCustomerRequest{
			StoreID: store.ID,
			Name:    fmt.Sprintf("Cliente Demo %d", i+1),
			CPF:     fmt.Sprintf("%011d", 12345678900+i),
			Phone:   "(11) 98888-0000",
		})
		if err != nil {
			return fmt.Errorf("cliente: %w", err)
		}

		if _, err := ucs.Sale.Create(ctx, admin.ID, dto.CreateSaleRequest{
			StoreID:     store.ID,
			PaymentType: entity.PaymentPix,
			Items: []dto.SaleItemRequest{
				saleItem(productIDs[0], stockIDs[0], 2, catalog[0].sale),
				saleItem(productIDs[2], stockIDs[2], 1, catalog[2].sale),
			},
		}); err != nil {
			return fmt.Errorf("venta PIX: %w", err)
		}
		if _, err := ucs.Sale.Create(ctx, admin.ID, dto.CreateSaleRequest{
			StoreID:     store.ID,
			CustomerID:  customer.ID,
			PaymentType: entity.PaymentFiado,
			Items:       []dto.SaleItemRequest{saleItem(productIDs[1], stockIDs[1], 3, catalog[1].sale)},
		}); err != nil {
			return fmt.Errorf("venta fiado: %w", err)
		}

		storeLog.Info().Int("stock_items", len(stockIDs)).Str("admin", admin.Email).Msg("loja cargada")
	}
	return nil
}

func saleItem(productID, stockID string, qty int, price string) dto.SaleItemRequest {
	return dto.SaleItemRequest{
		ProductID:   productID,
		StockItemID: stockID,
		Quantity:    qty,
		Price:       decimal.RequireFromString(price),
	}
}
