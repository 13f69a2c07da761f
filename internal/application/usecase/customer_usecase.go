package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// CustomerUseCase casos de uso de clientes de una loja.
type CustomerUseCase struct {
	repo            repository.CustomerRepository
	storeRepo       repository.StoreRepository
	installmentRepo repository.InstallmentRepository
	sales           *sales.SaleUseCase
	clock           func() time.Time
}

// NewCustomerUseCase construye el caso de uso. saleUC hidrata el historial de compras.
func NewCustomerUseCase(
	repo repository.CustomerRepository,
	storeRepo repository.StoreRepository,
	installmentRepo repository.InstallmentRepository,
	saleUC *sales.SaleUseCase,
) *CustomerUseCase {
	return &CustomerUseCase{
		repo:            repo,
		storeRepo:       storeRepo,
		installmentRepo: installmentRepo,
		sales:           saleUC,
		clock:           time.Now,
	}
}

// Create crea un cliente activo. CPF repetido entre los activos de la loja -> ErrDuplicate.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, in.StoreID)
	}
	cpf := strings.TrimSpace(in.CPF)
	if err := uc.ensureCPFFree(ctx, store.ID, cpf, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		StoreID:   store.ID,
		Name:      name,
		CPF:       cpf,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		BirthDate: in.BirthDate,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	out := mapper.CustomerResponse(customer)
	out.Store = mapper.StoreSummary(store)
	return out, nil
}

// GetByID detalle del cliente con loja, historial de ventas y parcelas abiertas.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.GetByID(ctx, customer.StoreID)
	if err != nil {
		return nil, err
	}
	history, err := uc.sales.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	open, err := uc.installmentRepo.List(ctx, repository.InstallmentFilter{
		CustomerID: customer.ID,
		Statuses:   []string{entity.InstallmentPending, entity.InstallmentOverdue},
	})
	if err != nil {
		return nil, err
	}
	out := mapper.CustomerResponse(customer)
	out.Store = mapper.StoreSummary(store)
	out.Sales = history
	out.PendingInstallments = mapper.InstallmentList(open, nil)
	return out, nil
}

// ListByStore clientes activos de la loja ordenados por nombre.
func (uc *CustomerUseCase) ListByStore(ctx context.Context, storeID string) ([]*dto.CustomerResponse, error) {
	list, err := uc.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return customerList(list), nil
}

// Search busca por nombre, CPF, teléfono o email. Término vacío equivale a listar.
func (uc *CustomerUseCase) Search(ctx context.Context, storeID, term string) ([]*dto.CustomerResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return uc.ListByStore(ctx, storeID)
	}
	list, err := uc.repo.Search(ctx, storeID, term)
	if err != nil {
		return nil, err
	}
	return customerList(list), nil
}

// Sales historial de compras del cliente, más recientes primero.
func (uc *CustomerUseCase) Sales(ctx context.Context, id string) ([]dto.SaleResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.sales.ListByCustomer(ctx, customer.ID)
}

// Balance saldo deudor del cliente.
func (uc *CustomerUseCase) Balance(ctx context.Context, id string) (*dto.CustomerBalanceResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := uc.installmentRepo.List(ctx, repository.InstallmentFilter{CustomerID: customer.ID})
	if err != nil {
		return nil, err
	}
	now := uc.clock()
	out := &dto.CustomerBalanceResponse{
		CustomerID:    customer.ID,
		TotalDebt:     decimal.Zero,
		OverdueAmount: decimal.Zero,
		PaidAmount:    decimal.Zero,
	}
	for _, i := range list {
		switch {
		case i.Status == entity.InstallmentPaid:
			out.PaidAmount = out.PaidAmount.Add(i.Amount)
		case i.IsOpen():
			out.OpenInstallments++
			out.TotalDebt = out.TotalDebt.Add(i.Amount)
			if i.Status == entity.InstallmentOverdue || i.IsPastDue(now) {
				out.OverdueInstallments++
				out.OverdueAmount = out.OverdueAmount.Add(i.Amount)
			}
		}
	}
	return out, nil
}

// Update actualiza datos del cliente; la loja no cambia.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		customer.Name = name
	}
	if in.CPF != nil {
		cpf := strings.TrimSpace(*in.CPF)
		if err := uc.ensureCPFFree(ctx, customer.StoreID, cpf, customer.ID); err != nil {
			return nil, err
		}
		customer.CPF = cpf
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Address != nil {
		customer.Address = *in.Address
	}
	if in.BirthDate != nil {
		customer.BirthDate = in.BirthDate
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return mapper.CustomerResponse(customer), nil
}

// Delete desactiva el cliente si tiene ventas; si no, lo elimina. Devuelve true si fue lógico.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) (bool, error) {
	customer, err := uc.get(ctx, id)
	if err != nil {
		return false, err
	}
	used, err := uc.repo.HasSales(ctx, customer.ID)
	if err != nil {
		return false, err
	}
	if !used {
		return false, uc.repo.Delete(ctx, customer.ID)
	}
	customer.IsActive = false
	customer.UpdatedAt = time.Now()
	return true, uc.repo.Update(ctx, customer)
}

func (uc *CustomerUseCase) ensureCPFFree(ctx context.Context, storeID, cpf, selfID string) error {
	if cpf == "" {
		return nil
	}
	other, err := uc.repo.GetActiveByCPF(ctx, storeID, cpf)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return fmt.Errorf("%w: ya existe un cliente con CPF %s en esta loja", domain.ErrDuplicate, cpf)
	}
	return nil
}

func (uc *CustomerUseCase) get(ctx context.Context, id string) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, id)
	}
	return customer, nil
}

func customerList(list []*entity.Customer) []*dto.CustomerResponse {
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapper.CustomerResponse(c))
	}
	return out
}
