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

// StoreUseCase casos de uso CRUD para lojas. El borrado es siempre lógico.
type StoreUseCase struct {
	repo        repository.StoreRepository
	companyRepo repository.CompanyRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository, companyRepo repository.CompanyRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo, companyRepo: companyRepo}
}

// Create crea una loja activa. La empresa debe existir.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, in.CompanyID)
	}
	now := time.Now()
	store := &entity.Store{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	out := mapper.StoreResponse(store)
	out.Company = mapper.CompanySummary(company)
	return out, nil
}

// GetByID obtiene una loja con su empresa y conteos.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*dto.StoreResponse, error) {
	store, err := uc.getStore(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.detail(ctx, store)
}

// List lista lojas; active filtra por estado cuando no es nil.
func (uc *StoreUseCase) List(ctx context.Context, active *bool) ([]dto.StoreResponse, error) {
	list, err := uc.repo.List(ctx, active)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		d, err := uc.detail(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// Update actualiza los campos informados. La empresa no cambia.
func (uc *StoreUseCase) Update(ctx context.Context, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.getStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		store.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	if in.Phone != nil {
		store.Phone = *in.Phone
	}
	if in.Email != nil {
		store.Email = *in.Email
	}
	if in.IsActive != nil {
		store.IsActive = *in.IsActive
	}
	store.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return uc.detail(ctx, store)
}

// Delete desactiva la loja (borrado lógico).
func (uc *StoreUseCase) Delete(ctx context.Context, id string) error {
	store, err := uc.getStore(ctx, id)
	if err != nil {
		return err
	}
	store.IsActive = false
	store.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, store)
}

func (uc *StoreUseCase) getStore(ctx context.Context, id string) (*entity.Store, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, id)
	}
	return store, nil
}

func (uc *StoreUseCase) detail(ctx context.Context, store *entity.Store) (*dto.StoreResponse, error) {
	company, err := uc.companyRepo.GetByID(ctx, store.CompanyID)
	if err != nil {
		return nil, err
	}
	counts, err := uc.repo.Counts(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := mapper.StoreResponse(store)
	out.Company = mapper.CompanySummary(company)
	out.Counts = &dto.StoreCountsResponse{
		StockItems: counts.StockItems,
		Customers:  counts.Customers,
		Sales:      counts.Sales,
		Users:      counts.Users,
	}
	return out, nil
}
