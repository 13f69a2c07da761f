// Package analytics contiene el dashboard de la loja.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen del día y del mes en curso de una loja.
//
// Fuente de datos: AnalyticsRepository para agregados de ventas y los repositorios
// de stock y parcelas para los widgets operativos.
type DashboardUseCase struct {
	analyticsRepo   repository.AnalyticsRepository
	storeRepo       repository.StoreRepository
	stockRepo       repository.StockItemRepository
	productRepo     repository.ProductRepository
	installmentRepo repository.InstallmentRepository
	clock           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	storeRepo repository.StoreRepository,
	stockRepo repository.StockItemRepository,
	productRepo repository.ProductRepository,
	installmentRepo repository.InstallmentRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo:   analyticsRepo,
		storeRepo:       storeRepo,
		stockRepo:       stockRepo,
		productRepo:     productRepo,
		installmentRepo: installmentRepo,
		clock:           time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *DashboardUseCase) WithClock(fn func() time.Time) *DashboardUseCase {
	uc.clock = fn
	return uc
}

// GetSummary construye el StoreDashboardResponse de la loja.
//
// Seis consultas en paralelo:
//  1. SalesSummary(hoy)
//  2. SalesSummary(mes)
//  3. ListLowStock
//  4. parcelas abiertas con vencimiento <= ahora
//  5. CountActiveCustomers
//  6. TopProducts(mes, top 5)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, storeID string) (*dto.StoreDashboardResponse, error) {
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, storeID)
	}

	now := uc.clock()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type salesResult struct {
		total decimal.Decimal
		count int
		err   error
	}
	type stockResult struct {
		items []*entity.StockItem
		err   error
	}
	type installmentsResult struct {
		list []*entity.Installment
		err  error
	}
	type countResult struct {
		n   int
		err error
	}
	type topResult struct {
		list []repository.ProductSalesResult
		err  error
	}

	todayCh := make(chan salesResult, 1)
	monthCh := make(chan salesResult, 1)
	lowCh := make(chan stockResult, 1)
	dueCh := make(chan installmentsResult, 1)
	customersCh := make(chan countResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		total, n, err := uc.analyticsRepo.SalesSummary(ctx, store.ID, todayStart, todayEnd)
		todayCh <- salesResult{total, n, err}
	}()
	go func() {
		total, n, err := uc.analyticsRepo.SalesSummary(ctx, store.ID, monthStart, todayEnd)
		monthCh <- salesResult{total, n, err}
	}()
	go func() {
		items, err := uc.stockRepo.ListLowStock(ctx, store.ID)
		lowCh <- stockResult{items, err}
	}()
	go func() {
		list, err := uc.installmentRepo.List(ctx, repository.InstallmentFilter{
			StoreID:  store.ID,
			Statuses: []string{entity.InstallmentPending, entity.InstallmentOverdue},
			DueTo:    &now,
		})
		dueCh <- installmentsResult{list, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActiveCustomers(ctx, store.ID)
		customersCh <- countResult{n, err}
	}()
	go func() {
		list, err := uc.analyticsRepo.TopProducts(ctx, store.ID, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{list, err}
	}()

	today := <-todayCh
	month := <-monthCh
	low := <-lowCh
	due := <-dueCh
	customers := <-customersCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if due.err != nil {
		return nil, fmt.Errorf("dashboard: parcelas vencidas: %w", due.err)
	}
	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", customers.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}

	products, err := uc.productRepo.GetByIDs(ctx, mapper.ProductIDs(low.items))
	if err != nil {
		return nil, err
	}

	dueAmount := decimal.Zero
	for _, i := range due.list {
		dueAmount = dueAmount.Add(i.Amount)
	}

	topProducts := make([]dto.ProductSalesDTO, 0, len(top.list))
	for _, p := range top.list {
		topProducts = append(topProducts, dto.ProductSalesDTO{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Revenue:     p.Revenue.Round(2),
		})
	}

	return &dto.StoreDashboardResponse{
		StoreID:               store.ID,
		TodaySales:            dto.PeriodSales{Total: today.total.Round(2), Count: today.count},
		MonthSales:            dto.PeriodSales{Total: month.total.Round(2), Count: month.count},
		LowStockCount:         len(low.items),
		LowStockItems:         mapper.StockItemList(low.items, products),
		DueInstallmentsCount:  len(due.list),
		DueInstallmentsAmount: dueAmount,
		CustomersCount:        customers.n,
		TopProducts:           topProducts,
		DateLabel:             monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Março 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
