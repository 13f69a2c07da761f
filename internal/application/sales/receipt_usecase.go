package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	repos       Repos
	companyRepo repository.CompanyRepository
	generator   ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(repos Repos, companyRepo repository.CompanyRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{repos: repos, companyRepo: companyRepo, generator: generator}
}

// Generate devuelve los bytes del PDF de la venta.
func (uc *ReceiptUseCase) Generate(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.repos.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	store, err := uc.repos.Stores.GetByID(ctx, sale.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: loja %s", domain.ErrNotFound, sale.StoreID)
	}
	company, err := uc.companyRepo.GetByID(ctx, store.CompanyID)
	if err != nil {
		return nil, err
	}

	var customer *entity.Customer
	if sale.CustomerID != "" {
		if customer, err = uc.repos.Customers.GetByID(ctx, sale.CustomerID); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(sale.Items))
	for _, it := range sale.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, it := range sale.Items {
		line := ReceiptLine{Quantity: it.Quantity, Price: it.Price, Total: it.Total, ProductName: it.ProductID, Unit: entity.DefaultUnit}
		if p := products[it.ProductID]; p != nil {
			line.ProductName = p.Name
			line.Unit = p.Unit
		}
		lines = append(lines, line)
	}

	installments, err := uc.repos.Installments.List(ctx, repository.InstallmentFilter{SaleIDs: []string{sale.ID}})
	if err != nil {
		return nil, err
	}
	sort.Slice(installments, func(i, j int) bool { return installments[i].Number < installments[j].Number })

	return uc.generator.GenerateSaleReceipt(ctx, ReceiptData{
		Sale:         sale,
		Store:        store,
		Company:      company,
		Customer:     customer,
		Lines:        lines,
		Installments: installments,
	})
}
