package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// fiadoDueDays vencimiento de la parcela única generada para FIADO sin plan.
const fiadoDueDays = 30

// Create registra una venta: valida todo antes de escribir y luego, en una sola
// transacción, bloquea las filas de stock, inserta venta y líneas, descuenta el
// stock y crea las parcelas. actingUserID (del token) tiene prioridad sobre in.UserID.
func (uc *SaleUseCase) Create(ctx context.Context, actingUserID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	now := uc.clock()
	userID := in.UserID
	if actingUserID != "" {
		userID = actingUserID
	}

	plan, err := uc.validate(ctx, userID, in, now)
	if err != nil {
		return nil, err
	}

	sale := plan.sale
	err = uc.tx.RunSale(ctx, func(
		stockRepo repository.StockItemRepository,
		saleRepo repository.SaleRepository,
		installmentRepo repository.InstallmentRepository,
	) error {
		// Bloqueo en orden de ID para no generar deadlocks entre ventas concurrentes.
		for _, id := range plan.stockOrder {
			item, err := stockRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
			}
			if item.Quantity < plan.requested[id] {
				return fmt.Errorf("%w: stock item %s disponible %d, solicitado %d",
					domain.ErrInsufficientStock, id, item.Quantity, plan.requested[id])
			}
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		for _, id := range plan.stockOrder {
			if err := stockRepo.Decrement(ctx, id, plan.requested[id]); err != nil {
				return err
			}
		}
		for _, inst := range plan.installments {
			if err := installmentRepo.Create(ctx, inst); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx, sale.StoreID)
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("store_id", sale.StoreID).
		Str("payment_type", sale.PaymentType).
		Str("total", sale.Total.StringFixed(2)).
		Int("items", len(sale.Items)).
		Int("installments", len(plan.installments)).
		Msg("venta registrada")

	return uc.GetByID(ctx, sale.ID)
}

// salePlan resultado de la validación: todo lo necesario para escribir.
type salePlan struct {
	sale         *entity.Sale
	installments []*entity.Installment
	requested    map[string]int // stock_item_id -> cantidad total pedida
	stockOrder   []string
}

func (uc *SaleUseCase) validate(ctx context.Context, userID string, in dto.CreateSaleRequest, now time.Time) (*salePlan, error) {
	if !entity.IsValidPaymentType(in.PaymentType) {
		return nil, fmt.Errorf("%w: payment_type %q inválido", domain.ErrInvalidInput, in.PaymentType)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta debe tener al menos un item", domain.ErrInvalidInput)
	}
	if in.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount no puede ser negativo", domain.ErrInvalidInput)
	}

	store, err := uc.repos.Stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, in.StoreID)
	}
	if !store.IsActive {
		return nil, fmt.Errorf("%w: la loja %s está inactiva", domain.ErrConflict, store.ID)
	}

	if in.CustomerID != "" {
		customer, err := uc.repos.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || !customer.IsActive {
			return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
		if customer.StoreID != store.ID {
			return nil, fmt.Errorf("%w: el cliente %s no pertenece a la loja", domain.ErrInvalidInput, customer.ID)
		}
	}
	if userID != "" {
		user, err := uc.repos.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, userID)
		}
	}
	if entity.RequiresCustomer(in.PaymentType) && in.CustomerID == "" {
		return nil, fmt.Errorf("%w: la forma de pago %s requiere cliente", domain.ErrInvalidInput, in.PaymentType)
	}
	if in.PaymentType == entity.PaymentInstallments && len(in.Installments) == 0 {
		return nil, fmt.Errorf("%w: la venta a plazo requiere al menos una parcela", domain.ErrInvalidInput)
	}
	if len(in.Installments) > 0 && in.CustomerID == "" {
		return nil, fmt.Errorf("%w: las parcelas requieren cliente", domain.ErrInvalidInput)
	}

	// Productos y stock items referenciados, cargados en lote.
	productIDs := make([]string, 0, len(in.Items))
	stockIDs := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		productIDs = append(productIDs, it.ProductID)
		stockIDs = append(stockIDs, it.StockItemID)
	}
	products, err := uc.repos.Products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	stock, err := uc.repos.StockItems.GetByIDs(ctx, stockIDs)
	if err != nil {
		return nil, err
	}

	saleID := uuid.New().String()
	requested := map[string]int{}
	items := make([]entity.SaleItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: items[%d].quantity debe ser >= 1", domain.ErrInvalidInput, i)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: items[%d].price no puede ser negativo", domain.ErrInvalidInput, i)
		}
		product := products[it.ProductID]
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		item := stock[it.StockItemID]
		if item == nil || !item.IsActive {
			return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, it.StockItemID)
		}
		if item.StoreID != store.ID || item.ProductID != product.ID {
			return nil, fmt.Errorf("%w: items[%d] el stock item no corresponde al producto en esta loja", domain.ErrInvalidInput, i)
		}
		lineTotal := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		if it.Total != nil && !it.Total.Equal(lineTotal) {
			return nil, fmt.Errorf("%w: items[%d].total %s no coincide con price x quantity %s",
				domain.ErrInvalidInput, i, it.Total.StringFixed(2), lineTotal.StringFixed(2))
		}
		requested[item.ID] += it.Quantity
		subtotal = subtotal.Add(lineTotal)
		items = append(items, entity.SaleItem{
			ID:          uuid.New().String(),
			SaleID:      saleID,
			ProductID:   product.ID,
			StockItemID: item.ID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       lineTotal,
		})
	}

	// Cantidad combinada por stock item contra lo disponible.
	stockOrder := make([]string, 0, len(requested))
	for id, qty := range requested {
		if stock[id].Quantity < qty {
			return nil, fmt.Errorf("%w: %s disponible %d, solicitado %d",
				domain.ErrInsufficientStock, products[stock[id].ProductID].Name, stock[id].Quantity, qty)
		}
		stockOrder = append(stockOrder, id)
	}
	sort.Strings(stockOrder)

	if in.Discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("%w: discount supera el subtotal", domain.ErrInvalidInput)
	}
	total := subtotal.Sub(in.Discount)
	if in.Total != nil && !in.Total.Equal(total) {
		return nil, fmt.Errorf("%w: total %s no coincide con el calculado %s",
			domain.ErrInvalidInput, in.Total.StringFixed(2), total.StringFixed(2))
	}

	sale := &entity.Sale{
		ID:          saleID,
		StoreID:     store.ID,
		UserID:      userID,
		CustomerID:  in.CustomerID,
		Total:       total,
		Discount:    in.Discount,
		PaymentType: in.PaymentType,
		Status:      entity.SaleStatusCompleted,
		Notes:       in.Notes,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	installments, err := buildInstallments(sale, in.Installments, now)
	if err != nil {
		return nil, err
	}

	return &salePlan{
		sale:         sale,
		installments: installments,
		requested:    requested,
		stockOrder:   stockOrder,
	}, nil
}

// buildInstallments arma las parcelas del plan. FIADO sin plan genera una única
// parcela por el total con vencimiento a fiadoDueDays días.
func buildInstallments(sale *entity.Sale, plan []dto.InstallmentPlanRequest, now time.Time) ([]*entity.Installment, error) {
	if len(plan) == 0 && sale.PaymentType == entity.PaymentFiado {
		plan = []dto.InstallmentPlanRequest{{
			Number:  1,
			Amount:  sale.Total,
			DueDate: now.AddDate(0, 0, fiadoDueDays),
		}}
	}
	seen := map[int]bool{}
	out := make([]*entity.Installment, 0, len(plan))
	for i, p := range plan {
		if p.Number < 1 {
			return nil, fmt.Errorf("%w: installments[%d].number debe ser >= 1", domain.ErrInvalidInput, i)
		}
		if seen[p.Number] {
			return nil, fmt.Errorf("%w: número de parcela %d repetido", domain.ErrDuplicate, p.Number)
		}
		seen[p.Number] = true
		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: installments[%d].amount no puede ser negativo", domain.ErrInvalidInput, i)
		}
		if p.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: installments[%d].due_date es requerido", domain.ErrInvalidInput, i)
		}
		inst := &entity.Installment{
			ID:         uuid.New().String(),
			SaleID:     sale.ID,
			CustomerID: sale.CustomerID,
			Number:     p.Number,
			Amount:     p.Amount,
			DueDate:    p.DueDate,
			Status:     entity.InstallmentPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if p.IsDownPayment {
			inst.Notes = "Entrada"
		}
		if p.IsPaid {
			if err := inst.Pay(entity.PaymentCash, now, inst.Notes); err != nil {
				return nil, err
			}
		}
		out = append(out, inst)
	}
	return out, nil
}

func (uc *SaleUseCase) invalidate(ctx context.Context, storeID string) {
	if err := uc.cache.Invalidate(ctx, storeID); err != nil {
		uc.log.Warn().Err(err).Str("store_id", storeID).Msg("no se pudo invalidar la caché de la loja")
	}
}
