package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/installments"
)

// InstallmentHandler maneja parcelas.
type InstallmentHandler struct {
	uc *installments.InstallmentUseCase
}

// NewInstallmentHandler construye el handler.
func NewInstallmentHandler(uc *installments.InstallmentUseCase) *InstallmentHandler {
	return &InstallmentHandler{uc: uc}
}

// List godoc
// @Summary      Listar parcelas
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        storeId     query  string  false  "Loja"
// @Param        customerId  query  string  false  "Cliente"
// @Param        status      query  string  false  "PENDING|PAID|OVERDUE|CANCELLED"
// @Param        overdue     query  bool    false  "Solo abiertas vencidas"
// @Success      200         {object}  dto.APIResponse{data=[]dto.InstallmentResponse}
// @Router       /api/installments [get]
func (h *InstallmentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.InstallmentFilter{
		StoreID:    storeQuery(c),
		CustomerID: c.Query("customerId"),
		Status:     c.Query("status"),
		Overdue:    c.QueryBool("overdue", false),
	})
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Overdue godoc
// @Summary      Parcelas vencidas
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  false  "Loja"
// @Success      200      {object}  dto.APIResponse{data=[]dto.InstallmentResponse}
// @Router       /api/installments/overdue [get]
func (h *InstallmentHandler) Overdue(c *fiber.Ctx) error {
	out, err := h.uc.Overdue(c.UserContext(), storeQuery(c))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Report godoc
// @Summary      Reporte de parcelas
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        storeId    query  string  false  "Loja"
// @Param        startDate  query  string  false  "Vencimiento desde (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Vencimiento hasta (YYYY-MM-DD)"
// @Success      200        {object}  dto.APIResponse{data=dto.InstallmentReportResponse}
// @Router       /api/installments/report [get]
func (h *InstallmentHandler) Report(c *fiber.Ctx) error {
	start, end, err := dateRange(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Report(c.UserContext(), dto.InstallmentFilter{
		StoreID:   storeQuery(c),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return err
	}
	return ok(c, out)
}

// ByCustomer godoc
// @Summary      Parcelas de un cliente
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        customerId  path   string  true   "Cliente"
// @Param        status      query  string  false  "Estado"
// @Success      200         {object}  dto.APIResponse{data=[]dto.InstallmentResponse}
// @Router       /api/installments/customer/{customerId} [get]
func (h *InstallmentHandler) ByCustomer(c *fiber.Ctx) error {
	customerID := c.Params("customerId")
	var (
		out []dto.InstallmentResponse
		err error
	)
	if status := c.Query("status"); status != "" {
		out, err = h.uc.List(c.UserContext(), dto.InstallmentFilter{CustomerID: customerID, Status: status})
	} else {
		out, err = h.uc.ByCustomer(c.UserContext(), customerID)
	}
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener parcela
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la parcela"
// @Success      200  {object}  dto.APIResponse{data=dto.InstallmentResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/installments/{id} [get]
func (h *InstallmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear parcela
// @Tags         installments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInstallmentRequest  true  "Parcela"
// @Success      201   {object}  dto.APIResponse{data=dto.InstallmentResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/installments [post]
func (h *InstallmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInstallmentRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, out, "Parcela criada")
}

// Update godoc
// @Summary      Actualizar parcela abierta
// @Tags         installments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la parcela"
// @Param        body  body  dto.UpdateInstallmentRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.APIResponse{data=dto.InstallmentResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/installments/{id} [put]
func (h *InstallmentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInstallmentRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Parcela atualizada")
}

// Pay godoc
// @Summary      Pagar parcela
// @Tags         installments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la parcela"
// @Param        body  body  dto.PayInstallmentRequest  true  "Forma de pago"
// @Success      200   {object}  dto.APIResponse{data=dto.InstallmentResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/installments/{id}/pay [patch]
func (h *InstallmentHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayInstallmentRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Pay(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Parcela paga")
}

// Cancel godoc
// @Summary      Cancelar parcela
// @Tags         installments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true   "ID de la parcela"
// @Param        body  body  dto.CancelInstallmentRequest  false  "Motivo"
// @Success      200   {object}  dto.APIResponse{data=dto.InstallmentResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/installments/{id}/cancel [patch]
func (h *InstallmentHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelInstallmentRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.Cancel(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Parcela cancelada")
}

// UpdateOverdue godoc
// @Summary      Marcar parcelas vencidas
// @Description  Pasa a OVERDUE todas las parcelas PENDING con vencimiento anterior a ahora.
// @Tags         installments
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.OverdueSweepResponse}
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/installments/update-overdue [patch]
func (h *InstallmentHandler) UpdateOverdue(c *fiber.Ctx) error {
	n, err := h.uc.UpdateOverdue(c.UserContext())
	if err != nil {
		return err
	}
	return okMessage(c, dto.OverdueSweepResponse{Updated: n}, "Parcelas vencidas atualizadas")
}
