package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos del catálogo. Stock y precios se manejan por loja.
type ProductUseCase struct {
	repo      repository.ProductRepository
	stockRepo repository.StockItemRepository
	storeRepo repository.StoreRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	stockRepo repository.StockItemRepository,
	storeRepo repository.StoreRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, stockRepo: stockRepo, storeRepo: storeRepo}
}

// Create crea un producto activo. Unit por defecto "un"; barcode duplicado -> ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	barcode := strings.TrimSpace(in.Barcode)
	if err := uc.ensureBarcodeFree(ctx, barcode, ""); err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Brand:       in.Brand,
		Category:    in.Category,
		Barcode:     barcode,
		Unit:        unit,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return mapper.ProductResponse(product), nil
}

// GetByID obtiene un producto con sus stock items (y la loja de cada uno).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.stockRepo.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	out := mapper.ProductResponse(product)
	for _, it := range items {
		store, err := uc.storeRepo.GetByID(ctx, it.StoreID)
		if err != nil {
			return nil, err
		}
		r := mapper.StockItemResponse(it, nil)
		r.Store = mapper.StoreSummary(store)
		out.StockItems = append(out.StockItems, r)
	}
	return out, nil
}

// GetByBarcode obtiene un producto por código de barras.
func (uc *ProductUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto con código %s", domain.ErrNotFound, barcode)
	}
	return mapper.ProductResponse(product), nil
}

// List lista productos activos por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// Search busca productos activos por texto libre.
func (uc *ProductUseCase) Search(ctx context.Context, term string) ([]dto.ProductResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.List(ctx)
	}
	list, err := uc.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return toProductList(list), nil
}

// Update actualiza los campos informados.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Barcode != nil {
		barcode := strings.TrimSpace(*in.Barcode)
		if err := uc.ensureBarcodeFree(ctx, barcode, product.ID); err != nil {
			return nil, err
		}
		product.Barcode = barcode
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return mapper.ProductResponse(product), nil
}

// Delete desactiva el producto si tiene ventas; si no, lo elimina.
// Devuelve true cuando el borrado fue lógico.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) (bool, error) {
	product, err := uc.getProduct(ctx, id)
	if err != nil {
		return false, err
	}
	used, err := uc.repo.HasSales(ctx, product.ID)
	if err != nil {
		return false, err
	}
	if used {
		product.IsActive = false
		product.UpdatedAt = time.Now()
		return true, uc.repo.Update(ctx, product)
	}
	return false, uc.repo.Delete(ctx, product.ID)
}

func (uc *ProductUseCase) getProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return product, nil
}

func (uc *ProductUseCase) ensureBarcodeFree(ctx context.Context, barcode, selfID string) error {
	if barcode == "" {
		return nil
	}
	existing, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: el código de barras %s ya está en uso", domain.ErrDuplicate, barcode)
	}
	return nil
}

func toProductList(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *mapper.ProductResponse(p))
	}
	return out
}
