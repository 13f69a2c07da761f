// Package sales contiene el flujo de venta: registro transaccional con baja de stock
// y parcelas, cancelación con reposición, consultas y reportes.
package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/application/ports"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

const reportTopProducts = 10

// Repos repositorios de lectura que usa el caso de uso fuera de la transacción.
type Repos struct {
	Stores       repository.StoreRepository
	Customers    repository.CustomerRepository
	Users        repository.UserRepository
	Products     repository.ProductRepository
	StockItems   repository.StockItemRepository
	Sales        repository.SaleRepository
	Installments repository.InstallmentRepository
}

// SaleUseCase casos de uso de ventas.
type SaleUseCase struct {
	tx    TxRunner
	repos Repos
	cache ports.StoreCache
	log   *logger.Logger
	clock func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(tx TxRunner, repos Repos, cache ports.StoreCache, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{
		tx:    tx,
		repos: repos,
		cache: cache,
		log:   log.Component("sales"),
		clock: time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(clock func() time.Time) *SaleUseCase {
	uc.clock = clock
	return uc
}

// GetByID devuelve la venta hidratada.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	list, err := uc.Hydrate(ctx, []*entity.Sale{sale})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List lista ventas filtradas, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, f dto.SaleFilter) ([]dto.SaleResponse, error) {
	list, err := uc.repos.Sales.List(ctx, toRepoFilter(f, false))
	if err != nil {
		return nil, err
	}
	return uc.Hydrate(ctx, list)
}

// ListByCustomer historial de compras del cliente.
func (uc *SaleUseCase) ListByCustomer(ctx context.Context, customerID string) ([]dto.SaleResponse, error) {
	return uc.List(ctx, dto.SaleFilter{CustomerID: customerID})
}

// Report resume las ventas no canceladas del período.
func (uc *SaleUseCase) Report(ctx context.Context, f dto.SaleFilter) (*dto.SalesReportResponse, error) {
	list, err := uc.repos.Sales.List(ctx, toRepoFilter(f, true))
	if err != nil {
		return nil, err
	}

	out := &dto.SalesReportResponse{
		TotalRevenue:         decimal.Zero,
		TotalDiscount:        decimal.Zero,
		AverageTicket:        decimal.Zero,
		PaymentTypeBreakdown: map[string]dto.PaymentBreakdown{},
		TopProducts:          []dto.ProductSalesDTO{},
	}
	byProduct := map[string]*dto.ProductSalesDTO{}
	for _, s := range list {
		out.TotalSales++
		out.TotalRevenue = out.TotalRevenue.Add(s.Total)
		out.TotalDiscount = out.TotalDiscount.Add(s.Discount)

		b := out.PaymentTypeBreakdown[s.PaymentType]
		b.Count++
		b.Total = b.Total.Add(s.Total)
		out.PaymentTypeBreakdown[s.PaymentType] = b

		for _, it := range s.Items {
			p, ok := byProduct[it.ProductID]
			if !ok {
				p = &dto.ProductSalesDTO{ProductID: it.ProductID, Revenue: decimal.Zero}
				byProduct[it.ProductID] = p
			}
			p.Quantity += it.Quantity
			p.Revenue = p.Revenue.Add(it.Total)
		}
	}
	if out.TotalSales > 0 {
		out.AverageTicket = out.TotalRevenue.Div(decimal.NewFromInt(int64(out.TotalSales))).Round(2)
	}

	ranking := make([]*dto.ProductSalesDTO, 0, len(byProduct))
	ids := make([]string, 0, len(byProduct))
	for id, p := range byProduct {
		ranking = append(ranking, p)
		ids = append(ids, id)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if c := ranking[i].Revenue.Cmp(ranking[j].Revenue); c != 0 {
			return c > 0
		}
		return ranking[i].ProductID < ranking[j].ProductID
	})
	if len(ranking) > reportTopProducts {
		ranking = ranking[:reportTopProducts]
	}
	products, err := uc.repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range ranking {
		if prod := products[p.ProductID]; prod != nil {
			p.ProductName = prod.Name
		}
		out.TopProducts = append(out.TopProducts, *p)
	}
	return out, nil
}

// Hydrate carga productos, clientes y parcelas de un lote de ventas.
func (uc *SaleUseCase) Hydrate(ctx context.Context, list []*entity.Sale) ([]dto.SaleResponse, error) {
	out := make([]dto.SaleResponse, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}
	var productIDs, customerIDs, saleIDs []string
	for _, s := range list {
		saleIDs = append(saleIDs, s.ID)
		if s.CustomerID != "" {
			customerIDs = append(customerIDs, s.CustomerID)
		}
		for _, it := range s.Items {
			productIDs = append(productIDs, it.ProductID)
		}
	}
	products, err := uc.repos.Products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	customers, err := uc.repos.Customers.GetByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	installments, err := uc.repos.Installments.List(ctx, repository.InstallmentFilter{SaleIDs: saleIDs})
	if err != nil {
		return nil, err
	}
	bySale := make(map[string][]*entity.Installment, len(list))
	for _, i := range installments {
		bySale[i.SaleID] = append(bySale[i.SaleID], i)
	}
	for _, s := range list {
		inst := bySale[s.ID]
		sort.Slice(inst, func(a, b int) bool { return inst[a].Number < inst[b].Number })
		out = append(out, mapper.SaleResponse(s, products, customers[s.CustomerID], inst))
	}
	return out, nil
}

func toRepoFilter(f dto.SaleFilter, excludeCancelled bool) repository.SaleFilter {
	return repository.SaleFilter{
		StoreID:          f.StoreID,
		CustomerID:       f.CustomerID,
		PaymentType:      f.PaymentType,
		Status:           f.Status,
		ExcludeCancelled: excludeCancelled,
		From:             f.StartDate,
		To:               f.EndDate,
	}
}
