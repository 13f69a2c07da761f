// Package installments gestiona el ciclo de vida de las parcelas: alta, pago,
// cancelación, barrido de vencidas y reportes.
package installments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/mapper"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

// maxWriteAttempts relecturas ante una escritura concurrente sobre la misma parcela.
const maxWriteAttempts = 3

// InstallmentUseCase casos de uso de parcelas.
type InstallmentUseCase struct {
	repo         repository.InstallmentRepository
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	log          *logger.Logger
	clock        func() time.Time
}

// NewInstallmentUseCase construye el caso de uso.
func NewInstallmentUseCase(
	repo repository.InstallmentRepository,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	log *logger.Logger,
) *InstallmentUseCase {
	return &InstallmentUseCase{
		repo:         repo,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		log:          log.Component("installments"),
		clock:        time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *InstallmentUseCase) WithClock(fn func() time.Time) *InstallmentUseCase {
	uc.clock = fn
	return uc
}

// List lista parcelas por vencimiento. Overdue=true limita a abiertas con vencimiento pasado.
func (uc *InstallmentUseCase) List(ctx context.Context, f dto.InstallmentFilter) ([]dto.InstallmentResponse, error) {
	rf := repository.InstallmentFilter{
		StoreID:    f.StoreID,
		CustomerID: f.CustomerID,
		DueFrom:    f.StartDate,
		DueTo:      f.EndDate,
	}
	if f.Status != "" {
		rf.Statuses = []string{f.Status}
	}
	if f.Overdue {
		now := uc.clock()
		rf.Statuses = []string{entity.InstallmentPending, entity.InstallmentOverdue}
		rf.DueBefore = &now
	}
	list, err := uc.repo.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	return uc.withCustomers(ctx, list)
}

// Overdue parcelas abiertas con vencimiento pasado, opcionalmente de una loja.
func (uc *InstallmentUseCase) Overdue(ctx context.Context, storeID string) ([]dto.InstallmentResponse, error) {
	return uc.List(ctx, dto.InstallmentFilter{StoreID: storeID, Overdue: true})
}

// ByCustomer todas las parcelas del cliente.
func (uc *InstallmentUseCase) ByCustomer(ctx context.Context, customerID string) ([]dto.InstallmentResponse, error) {
	return uc.List(ctx, dto.InstallmentFilter{CustomerID: customerID})
}

// GetByID obtiene una parcela con su cliente.
func (uc *InstallmentUseCase) GetByID(ctx context.Context, id string) (*dto.InstallmentResponse, error) {
	inst, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.one(ctx, inst)
}

// Create da de alta una parcela suelta para una venta existente.
func (uc *InstallmentUseCase) Create(ctx context.Context, in dto.CreateInstallmentRequest) (*dto.InstallmentResponse, error) {
	if in.Amount.IsNegative() {
		return nil, domain.ValidationErrors{{Field: "amount", Message: "no puede ser negativo"}}
	}
	sale, err := uc.saleRepo.GetByID(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, in.SaleID)
	}
	if sale.Status == entity.SaleStatusCancelled {
		return nil, fmt.Errorf("%w: la venta está cancelada", domain.ErrConflict)
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}
	exists, err := uc.repo.ExistsNumber(ctx, sale.ID, in.Number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: la venta ya tiene la parcela %d", domain.ErrDuplicate, in.Number)
	}

	now := uc.clock()
	inst := &entity.Installment{
		ID:         uuid.New().String(),
		SaleID:     sale.ID,
		CustomerID: customer.ID,
		Number:     in.Number,
		Amount:     in.Amount,
		DueDate:    in.DueDate,
		Status:     entity.InstallmentPending,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, inst); err != nil {
		return nil, err
	}
	out := mapper.InstallmentResponse(inst, customer)
	return &out, nil
}

// Update cambia monto, vencimiento o notas mientras la parcela siga abierta.
func (uc *InstallmentUseCase) Update(ctx context.Context, id string, in dto.UpdateInstallmentRequest) (*dto.InstallmentResponse, error) {
	if in.Amount != nil && in.Amount.IsNegative() {
		return nil, domain.ValidationErrors{{Field: "amount", Message: "no puede ser negativo"}}
	}
	inst, err := uc.apply(ctx, id, func(inst *entity.Installment) error {
		if !inst.IsOpen() {
			return fmt.Errorf("%w: la parcela está %s", domain.ErrInvalidTransition, inst.Status)
		}
		if in.Amount != nil {
			inst.Amount = *in.Amount
		}
		if in.DueDate != nil {
			inst.DueDate = *in.DueDate
		}
		if in.Notes != nil {
			inst.Notes = *in.Notes
		}
		inst.UpdatedAt = uc.clock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.one(ctx, inst)
}

// Pay registra el pago: PENDING u OVERDUE pasan a PAID.
func (uc *InstallmentUseCase) Pay(ctx context.Context, id string, in dto.PayInstallmentRequest) (*dto.InstallmentResponse, error) {
	inst, err := uc.apply(ctx, id, func(inst *entity.Installment) error {
		paidAt := uc.clock()
		if in.PaidDate != nil {
			paidAt = *in.PaidDate
		}
		if err := inst.Pay(in.PaymentType, paidAt, in.Notes); err != nil {
			return err
		}
		inst.UpdatedAt = uc.clock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("installment_id", inst.ID).
		Str("sale_id", inst.SaleID).
		Str("payment_type", inst.PaymentType).
		Str("amount", inst.Amount.StringFixed(2)).
		Msg("parcela pagada")
	return uc.one(ctx, inst)
}

// Cancel cancela una parcela abierta.
func (uc *InstallmentUseCase) Cancel(ctx context.Context, id string, in dto.CancelInstallmentRequest) (*dto.InstallmentResponse, error) {
	inst, err := uc.apply(ctx, id, func(inst *entity.Installment) error {
		return inst.Cancel(in.Reason, uc.clock())
	})
	if err != nil {
		return nil, err
	}
	return uc.one(ctx, inst)
}

// apply lee la parcela, aplica change y la escribe solo si el estado no cambió
// desde la lectura. Si otra operación (pago, cancelación de la venta, barrido)
// ganó la carrera se relee y change decide con el estado nuevo.
func (uc *InstallmentUseCase) apply(ctx context.Context, id string, change func(*entity.Installment) error) (*entity.Installment, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		inst, err := uc.get(ctx, id)
		if err != nil {
			return nil, err
		}
		read := inst.Status
		if err := change(inst); err != nil {
			return nil, err
		}
		ok, err := uc.repo.UpdateIfStatus(ctx, inst, read)
		if err != nil {
			return nil, err
		}
		if ok {
			return inst, nil
		}
		uc.log.Warn().Str("installment_id", id).Int("attempt", attempt+1).Msg("parcela modificada en paralelo, reintentando")
	}
	return nil, fmt.Errorf("%w: la parcela %s cambió durante la operación", domain.ErrConflict, id)
}

// UpdateOverdue pasa a OVERDUE las PENDING vencidas con un único UPDATE y devuelve cuántas cambió.
func (uc *InstallmentUseCase) UpdateOverdue(ctx context.Context) (int64, error) {
	n, err := uc.repo.MarkOverdue(ctx, uc.clock())
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("updated", n).Msg("barrido de parcelas vencidas")
	return n, nil
}

// Report totales por estado en la ventana de vencimiento.
func (uc *InstallmentUseCase) Report(ctx context.Context, f dto.InstallmentFilter) (*dto.InstallmentReportResponse, error) {
	list, err := uc.repo.List(ctx, repository.InstallmentFilter{
		StoreID:    f.StoreID,
		CustomerID: f.CustomerID,
		DueFrom:    f.StartDate,
		DueTo:      f.EndDate,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.InstallmentReportResponse{
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		PendingAmount: decimal.Zero,
		OverdueAmount: decimal.Zero,
	}
	now := uc.clock()
	for _, i := range list {
		if i.Status == entity.InstallmentCancelled {
			out.CancelledCount++
			continue
		}
		out.TotalInstallments++
		out.TotalAmount = out.TotalAmount.Add(i.Amount)
		switch {
		case i.Status == entity.InstallmentPaid:
			out.PaidCount++
			out.PaidAmount = out.PaidAmount.Add(i.Amount)
		case i.Status == entity.InstallmentOverdue || i.IsPastDue(now):
			out.OverdueCount++
			out.OverdueAmount = out.OverdueAmount.Add(i.Amount)
		default:
			out.PendingCount++
			out.PendingAmount = out.PendingAmount.Add(i.Amount)
		}
	}
	return out, nil
}

func (uc *InstallmentUseCase) get(ctx context.Context, id string) (*entity.Installment, error) {
	inst, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: parcela %s", domain.ErrNotFound, id)
	}
	return inst, nil
}

func (uc *InstallmentUseCase) one(ctx context.Context, inst *entity.Installment) (*dto.InstallmentResponse, error) {
	customer, err := uc.customerRepo.GetByID(ctx, inst.CustomerID)
	if err != nil {
		return nil, err
	}
	out := mapper.InstallmentResponse(inst, customer)
	return &out, nil
}

func (uc *InstallmentUseCase) withCustomers(ctx context.Context, list []*entity.Installment) ([]dto.InstallmentResponse, error) {
	ids := make([]string, 0, len(list))
	for _, i := range list {
		ids = append(ids, i.CustomerID)
	}
	customers, err := uc.customerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return mapper.InstallmentList(list, customers), nil
}
