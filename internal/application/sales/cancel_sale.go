package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// Cancel revierte una venta en una transacción: marca la venta CANCELLED (falla si ya
// lo estaba), repone exactamente las cantidades de cada línea y cancela las parcelas abiertas.
func (uc *SaleUseCase) Cancel(ctx context.Context, id string, in dto.CancelSaleRequest) (*dto.SaleResponse, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	if sale.Status == entity.SaleStatusCancelled {
		return nil, fmt.Errorf("%w: la venta ya está cancelada", domain.ErrConflict)
	}

	now := uc.clock()
	note := "Cancelada"
	if in.Reason != "" {
		note = "Cancelada: " + in.Reason
	}
	notes := entity.AppendNote(sale.Notes, note)

	var cancelledInstallments int64
	err = uc.tx.RunSale(ctx, func(
		stockRepo repository.StockItemRepository,
		saleRepo repository.SaleRepository,
		installmentRepo repository.InstallmentRepository,
	) error {
		// El UPDATE condicionado serializa cancelaciones concurrentes de la misma venta.
		if err := saleRepo.Cancel(ctx, sale.ID, notes, now); err != nil {
			return err
		}
		for _, it := range sale.Items {
			if err := stockRepo.Increment(ctx, it.StockItemID, it.Quantity); err != nil {
				return err
			}
		}
		n, err := installmentRepo.CancelOpenBySale(ctx, sale.ID, now)
		if err != nil {
			return err
		}
		cancelledInstallments = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, sale.StoreID)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("store_id", sale.StoreID).
		Int64("installments_cancelled", cancelledInstallments).
		Msg("venta cancelada")

	return uc.GetByID(ctx, sale.ID)
}
