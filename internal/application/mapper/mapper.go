// Package mapper convierte entidades de dominio en DTOs de respuesta.
package mapper

import (
	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
)

func CompanyResponse(c *entity.Company, storeCount int) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:         c.ID,
		Name:       c.Name,
		CNPJ:       c.CNPJ,
		Address:    c.Address,
		Phone:      c.Phone,
		Email:      c.Email,
		StoreCount: storeCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func CompanySummary(c *entity.Company) *dto.CompanySummary {
	if c == nil {
		return nil
	}
	return &dto.CompanySummary{ID: c.ID, Name: c.Name, CNPJ: c.CNPJ}
}

func StoreResponse(s *entity.Store) *dto.StoreResponse {
	if s == nil {
		return nil
	}
	return &dto.StoreResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Email:     s.Email,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func StoreSummary(s *entity.Store) *dto.StoreSummary {
	if s == nil {
		return nil
	}
	return &dto.StoreSummary{ID: s.ID, Name: s.Name}
}

func ProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Category:    p.Category,
		Barcode:     p.Barcode,
		Unit:        p.Unit,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ProductSummary(p *entity.Product) *dto.ProductSummary {
	if p == nil {
		return nil
	}
	return &dto.ProductSummary{
		ID:       p.ID,
		Name:     p.Name,
		Barcode:  p.Barcode,
		Brand:    p.Brand,
		Category: p.Category,
		Unit:     p.Unit,
	}
}

// StockItemResponse product puede ser nil.
func StockItemResponse(s *entity.StockItem, product *entity.Product) dto.StockItemResponse {
	return dto.StockItemResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		StoreID:       s.StoreID,
		Quantity:      s.Quantity,
		MinQuantity:   s.MinQuantity,
		MaxQuantity:   s.MaxQuantity,
		PurchasePrice: s.PurchasePrice,
		SalePrice:     s.SalePrice,
		IsActive:      s.IsActive,
		IsLow:         s.IsLow(),
		Product:       ProductSummary(product),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// StockItemList mapea items con los productos ya cargados por ID.
func StockItemList(items []*entity.StockItem, products map[string]*entity.Product) []dto.StockItemResponse {
	out := make([]dto.StockItemResponse, 0, len(items))
	for _, s := range items {
		out = append(out, StockItemResponse(s, products[s.ProductID]))
	}
	return out
}

func CustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		StoreID:   c.StoreID,
		Name:      c.Name,
		CPF:       c.CPF,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		BirthDate: c.BirthDate,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func CustomerSummary(c *entity.Customer) *dto.CustomerSummary {
	if c == nil {
		return nil
	}
	return &dto.CustomerSummary{ID: c.ID, Name: c.Name, CPF: c.CPF, Phone: c.Phone}
}

func InstallmentResponse(i *entity.Installment, customer *entity.Customer) dto.InstallmentResponse {
	return dto.InstallmentResponse{
		ID:          i.ID,
		SaleID:      i.SaleID,
		CustomerID:  i.CustomerID,
		Number:      i.Number,
		Amount:      i.Amount,
		DueDate:     i.DueDate,
		PaidDate:    i.PaidDate,
		Status:      i.Status,
		PaymentType: i.PaymentType,
		Notes:       i.Notes,
		Customer:    CustomerSummary(customer),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func InstallmentList(list []*entity.Installment, customers map[string]*entity.Customer) []dto.InstallmentResponse {
	out := make([]dto.InstallmentResponse, 0, len(list))
	for _, i := range list {
		out = append(out, InstallmentResponse(i, customers[i.CustomerID]))
	}
	return out
}

// SaleResponse hidrata la venta con productos, cliente y parcelas ya cargados.
func SaleResponse(
	s *entity.Sale,
	products map[string]*entity.Product,
	customer *entity.Customer,
	installments []*entity.Installment,
) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			StockItemID: it.StockItemID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
			Product:     ProductSummary(products[it.ProductID]),
		})
	}
	var inst []dto.InstallmentResponse
	if len(installments) > 0 {
		inst = make([]dto.InstallmentResponse, 0, len(installments))
		for _, i := range installments {
			inst = append(inst, InstallmentResponse(i, nil))
		}
	}
	return dto.SaleResponse{
		ID:           s.ID,
		StoreID:      s.StoreID,
		UserID:       s.UserID,
		CustomerID:   s.CustomerID,
		Total:        s.Total,
		Discount:     s.Discount,
		PaymentType:  s.PaymentType,
		Status:       s.Status,
		Notes:        s.Notes,
		Items:        items,
		Customer:     CustomerSummary(customer),
		Installments: inst,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func UserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		StoreID:   u.StoreID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ProductIDs devuelve los IDs de producto de los items (sin repetir).
func ProductIDs(items []*entity.StockItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s.ProductID]; ok {
			continue
		}
		seen[s.ProductID] = struct{}{}
		ids = append(ids, s.ProductID)
	}
	return ids
}
