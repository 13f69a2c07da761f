// Package inventory contiene los casos de uso de stock por loja: alta, ajuste de
// cantidad con bloqueo de fila, consultas cacheadas y reportes.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/application/ports"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/inventory"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// Claves de caché por loja.
const (
	cacheKeyList     = "stock:list"
	cacheKeyLowStock = "stock:low"
)

// StockUseCase casos de uso de StockItem.
type StockUseCase struct {
	txRunner    TxRunner
	repo        repository.StockItemRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	cache       ports.StoreCache
	log         *logger.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	repo repository.StockItemRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	cache ports.StoreCache,
	log *logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:    txRunner,
		repo:        repo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		cache:       cache,
		log:         log.Component("inventory"),
	}
}

// Create da de alta el stock de un producto en una loja. Un solo item por (producto, loja).
func (uc *StockUseCase) Create(ctx context.Context, in dto.CreateStockItemRequest) (*dto.StockItemResponse, error) {
	if err := validateLevels(in.Quantity, in.MinQuantity, in.MaxQuantity, in.PurchasePrice, in.SalePrice); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, in.StoreID)
	}
	existing, err := uc.repo.GetByProductAndStore(ctx, product.ID, store.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el producto ya tiene stock en esta loja", domain.ErrDuplicate)
	}

	now := time.Now()
	item := &entity.StockItem{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		StoreID:       store.ID,
		Quantity:      in.Quantity,
		MinQuantity:   in.MinQuantity,
		MaxQuantity:   in.MaxQuantity,
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.invalidate(ctx, store.ID)
	out := mapper.StockItemResponse(item, product)
	out.Store = mapper.StoreSummary(store)
	return &out, nil
}

// GetByID obtiene un item con su producto y loja.
func (uc *StockUseCase) GetByID(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	item, err := uc.getItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, item)
}

// GetByProductAndStore obtiene el item de un producto en una loja.
func (uc *StockUseCase) GetByProductAndStore(ctx context.Context, productID, storeID string) (*dto.StockItemResponse, error) {
	item, err := uc.repo.GetByProductAndStore(ctx, productID, storeID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock del producto %s en la loja %s", domain.ErrNotFound, productID, storeID)
	}
	return uc.detail(ctx, item)
}

// ListByStore lista el stock activo de la loja (cacheado por loja).
func (uc *StockUseCase) ListByStore(ctx context.Context, storeID string) ([]dto.StockItemResponse, error) {
	return uc.cached(ctx, storeID, cacheKeyList, func() ([]*entity.StockItem, error) {
		return uc.repo.ListByStore(ctx, storeID)
	})
}

// LowStock lista los items en o por debajo del mínimo (cacheado por loja).
func (uc *StockUseCase) LowStock(ctx context.Context, storeID string) ([]dto.StockItemResponse, error) {
	return uc.cached(ctx, storeID, cacheKeyLowStock, func() ([]*entity.StockItem, error) {
		return uc.repo.ListLowStock(ctx, storeID)
	})
}

// Search busca stock de la loja por datos del producto.
func (uc *StockUseCase) Search(ctx context.Context, storeID, term string) ([]dto.StockItemResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.ListByStore(ctx, storeID)
	}
	items, err := uc.repo.Search(ctx, storeID, term)
	if err != nil {
		return nil, err
	}
	return uc.withProducts(ctx, items)
}

// Report resume cantidades y valorización del stock activo de la loja.
func (uc *StockUseCase) Report(ctx context.Context, storeID string) (*dto.StockReportResponse, error) {
	items, err := uc.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockReportResponse{
		StoreID:        storeID,
		TotalValue:     decimal.Zero,
		TotalSaleValue: decimal.Zero,
	}
	for _, it := range items {
		out.TotalItems++
		out.TotalQuantity += it.Quantity
		out.TotalValue = out.TotalValue.Add(inventory.StockValue(it.Quantity, it.PurchasePrice))
		out.TotalSaleValue = out.TotalSaleValue.Add(inventory.StockValue(it.Quantity, it.SalePrice))
		if it.IsLow() {
			out.LowStockCount++
		}
		if it.Quantity == 0 {
			out.OutOfStockCount++
		}
	}
	return out, nil
}

// Update actualiza umbrales, precios o cantidad absoluta con la fila bloqueada.
// Una edición sin quantity no reescribe la cantidad, así no pisa una venta concurrente.
func (uc *StockUseCase) Update(ctx context.Context, id string, in dto.UpdateStockItemRequest) (*dto.StockItemResponse, error) {
	var updated *entity.StockItem
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository) error {
		item, err := lockItem(ctx, stockRepo, id)
		if err != nil {
			return err
		}
		if in.Quantity != nil {
			item.Quantity = *in.Quantity
		}
		if in.MinQuantity != nil {
			item.MinQuantity = *in.MinQuantity
		}
		if in.MaxQuantity != nil {
			item.MaxQuantity = in.MaxQuantity
		}
		if in.PurchasePrice != nil {
			item.PurchasePrice = *in.PurchasePrice
		}
		if in.SalePrice != nil {
			item.SalePrice = *in.SalePrice
		}
		if err := validateLevels(item.Quantity, item.MinQuantity, item.MaxQuantity, item.PurchasePrice, item.SalePrice); err != nil {
			return err
		}
		item.UpdatedAt = time.Now()
		if err := stockRepo.Update(ctx, item); err != nil {
			return err
		}
		if in.Quantity != nil {
			if err := stockRepo.SetQuantity(ctx, item.ID, item.Quantity, item.UpdatedAt); err != nil {
				return err
			}
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, updated.StoreID)
	// Releer: sin quantity en la edición, la cantidad vigente es la de la base.
	return uc.GetByID(ctx, updated.ID)
}

// AdjustQuantity aplica set/add/subtract dentro de una transacción con la fila bloqueada.
// subtract que dejaría la cantidad negativa se rechaza con ErrInsufficientStock.
func (uc *StockUseCase) AdjustQuantity(ctx context.Context, id string, in dto.AdjustQuantityRequest) (*dto.StockItemResponse, error) {
	var updated *entity.StockItem
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository) error {
		item, err := lockItem(ctx, stockRepo, id)
		if err != nil {
			return err
		}
		qty, err := inventory.ApplyQuantity(item.Quantity, in.Operation, in.Quantity)
		if err != nil {
			return err
		}
		item.Quantity = qty
		item.UpdatedAt = time.Now()
		if err := stockRepo.SetQuantity(ctx, item.ID, qty, item.UpdatedAt); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, updated.StoreID)
	uc.log.Info().
		Str("stock_item_id", updated.ID).
		Str("operation", in.Operation).
		Int("value", in.Quantity).
		Int("quantity", updated.Quantity).
		Msg("cantidad ajustada")
	return uc.detail(ctx, updated)
}

// Delete desactiva el item si tiene ventas; si no, lo elimina. Devuelve true si fue lógico.
func (uc *StockUseCase) Delete(ctx context.Context, id string) (bool, error) {
	var (
		storeID string
		soft    bool
	)
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockItemRepository) error {
		item, err := lockItem(ctx, stockRepo, id)
		if err != nil {
			return err
		}
		storeID = item.StoreID
		soft, err = stockRepo.HasSales(ctx, item.ID)
		if err != nil {
			return err
		}
		if !soft {
			return stockRepo.Delete(ctx, item.ID)
		}
		item.IsActive = false
		item.UpdatedAt = time.Now()
		return stockRepo.Update(ctx, item)
	})
	if err != nil {
		return false, err
	}
	uc.invalidate(ctx, storeID)
	return soft, nil
}

func (uc *StockUseCase) cached(
	ctx context.Context,
	storeID, key string,
	load func() ([]*entity.StockItem, error),
) ([]dto.StockItemResponse, error) {
	var out []dto.StockItemResponse
	hit, err := uc.cache.Get(ctx, storeID, key, &out)
	if err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("lectura de caché fallida")
	}
	if hit {
		return out, nil
	}
	items, err := load()
	if err != nil {
		return nil, err
	}
	out, err = uc.withProducts(ctx, items)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, storeID, key, out); err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("escritura de caché fallida")
	}
	return out, nil
}

func (uc *StockUseCase) withProducts(ctx context.Context, items []*entity.StockItem) ([]dto.StockItemResponse, error) {
	products, err := uc.productRepo.GetByIDs(ctx, mapper.ProductIDs(items))
	if err != nil {
		return nil, err
	}
	return mapper.StockItemList(items, products), nil
}

func (uc *StockUseCase) getItem(ctx context.Context, id string) (*entity.StockItem, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func lockItem(ctx context.Context, stockRepo repository.StockItemRepository, id string) (*entity.StockItem, error) {
	item, err := stockRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func (uc *StockUseCase) detail(ctx context.Context, item *entity.StockItem) (*dto.StockItemResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.GetByID(ctx, item.StoreID)
	if err != nil {
		return nil, err
	}
	out := mapper.StockItemResponse(item, product)
	out.Store = mapper.StoreSummary(store)
	return &out, nil
}

func (uc *StockUseCase) invalidate(ctx context.Context, storeID string) {
	if err := uc.cache.Invalidate(ctx, storeID); err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo invalidar la caché de la loja")
	}
}

func validateLevels(qty, min int, max *int, purchase, sale decimal.Decimal) error {
	var errs domain.ValidationErrors
	if qty < 0 {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "no puede ser negativa"})
	}
	if min < 0 {
		errs = append(errs, domain.FieldError{Field: "min_quantity", Message: "no puede ser negativa"})
	}
	if max != nil && *max < min {
		errs = append(errs, domain.FieldError{Field: "max_quantity", Message: "debe ser mayor o igual a min_quantity"})
	}
	if purchase.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "purchase_price", Message: "no puede ser negativo"})
	}
	if sale.IsNegative() {
		errs = append(errs, domain.FieldError{Field: "sale_price", Message: "no puede ser negativo"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
