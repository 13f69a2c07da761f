package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/sales"
)

// SaleHandler maneja ventas, su cancelación y el comprobante PDF.
type SaleHandler struct {
	uc      *sales.SaleUseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipt: receipt}
}

func saleFilter(c *fiber.Ctx) (dto.SaleFilter, error) {
	start, end, err := dateRange(c)
	if err != nil {
		return dto.SaleFilter{}, err
	}
	return dto.SaleFilter{
		StoreID:     storeQuery(c),
		CustomerID:  c.Query("customerId"),
		PaymentType: c.Query("paymentType"),
		Status:      c.Query("status"),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        storeId      query  string  false  "Loja"
// @Param        customerId   query  string  false  "Cliente"
// @Param        paymentType  query  string  false  "CASH|CARD|PIX|INSTALLMENTS|FIADO"
// @Param        status       query  string  false  "Estado"
// @Param        startDate    query  string  false  "YYYY-MM-DD"
// @Param        endDate      query  string  false  "YYYY-MM-DD"
// @Success      200          {object}  dto.APIResponse{data=[]dto.SaleResponse}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	f, err := saleFilter(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Report godoc
// @Summary      Reporte de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        storeId    query  string  false  "Loja"
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        endDate    query  string  false  "YYYY-MM-DD"
// @Success      200        {object}  dto.APIResponse{data=dto.SalesReportResponse}
// @Router       /api/sales/report [get]
func (h *SaleHandler) Report(c *fiber.Ctx) error {
	f, err := saleFilter(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Report(c.UserContext(), f)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.APIResponse{data=dto.SaleResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.receipt.Generate(c.UserContext(), id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="venda-`+id+`.pdf"`)
	return c.Send(pdf)
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida todo antes de escribir; descuenta stock y crea parcelas en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.APIResponse{data=dto.SaleResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return created(c, out, "Venda registrada")
}

// Cancel godoc
// @Summary      Cancelar venta
// @Description  Repone el stock, cancela las parcelas abiertas y marca la venta CANCELLED.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.CancelSaleRequest  false "Motivo"
// @Success      200   {object}  dto.APIResponse{data=dto.SaleResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [patch]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelSaleRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Venda cancelada")
}
