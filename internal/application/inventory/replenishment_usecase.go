package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

const (
	replenishmentWindowDays = 90
	replenishmentTopLimit   = 500
)

// ReplenishmentUseCase genera la lista de reposición de una loja.
// Combina el stock bajo el mínimo con el historial de ventas para priorizar.
type ReplenishmentUseCase struct {
	stockRepo     repository.StockItemRepository
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
	log           *logger.Logger
	clock         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	stockRepo repository.StockItemRepository,
	productRepo repository.ProductRepository,
	analyticsRepo repository.AnalyticsRepository,
	log *logger.Logger,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		stockRepo:     stockRepo,
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
		log:           log.Component("replenishment"),
		clock:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReplenishmentUseCase) WithClock(fn func() time.Time) *ReplenishmentUseCase {
	uc.clock = fn
	return uc
}

// Suggestions devuelve los items en o bajo el mínimo con la cantidad sugerida de pedido.
// El objetivo es max_quantity si está definido; si no, el doble del mínimo.
// Orden: mayor margen, luego más unidades vendidas en 90 días, luego mayor déficit.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context, storeID string) ([]dto.ReplenishmentSuggestion, error) {
	items, err := uc.stockRepo.ListLowStock(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	products, err := uc.productRepo.GetByIDs(ctx, mapper.ProductIDs(items))
	if err != nil {
		return nil, err
	}

	// El historial es opcional: sin él solo se pierde el desempate por volumen.
	end := uc.clock()
	start := end.AddDate(0, 0, -replenishmentWindowDays)
	sold := make(map[string]int)
	top, err := uc.analyticsRepo.TopProducts(ctx, storeID, start, end, replenishmentTopLimit)
	if err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("historial de ventas no disponible")
	}
	for _, p := range top {
		sold[p.ProductID] = p.Quantity
	}

	hundred := decimal.NewFromInt(100)
	out := make([]dto.ReplenishmentSuggestion, 0, len(items))
	for _, it := range items {
		target := it.MinQuantity * 2
		if it.MaxQuantity != nil {
			target = *it.MaxQuantity
		}
		suggested := target - it.Quantity
		if suggested < 0 {
			suggested = 0
		}
		var margin decimal.Decimal
		if it.SalePrice.GreaterThan(decimal.Zero) {
			margin = it.SalePrice.Sub(it.PurchasePrice).Div(it.SalePrice).Mul(hundred).Round(2)
		}
		name := ""
		if p, ok := products[it.ProductID]; ok {
			name = p.Name
		}
		out = append(out, dto.ReplenishmentSuggestion{
			StockItemID:         it.ID,
			ProductID:           it.ProductID,
			ProductName:         name,
			CurrentQuantity:     it.Quantity,
			MinQuantity:         it.MinQuantity,
			TargetQuantity:      target,
			SuggestedOrderQty:   suggested,
			UnitCost:            it.PurchasePrice,
			EstimatedOrderCost:  it.PurchasePrice.Mul(decimal.NewFromInt(int64(suggested))),
			GrossMarginPct:      margin,
			UnitsSoldLast90Days: sold[it.ProductID],
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.MinQuantity-a.CurrentQuantity > b.MinQuantity-b.CurrentQuantity
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
