package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/application/analytics"
	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/usecase"
	"github.com/jhoicas/varejo-api/internal/domain"
)

// StoreHandler maneja lojas y su dashboard.
type StoreHandler struct {
	uc        *usecase.StoreUseCase
	dashboard *analytics.DashboardUseCase
}

// NewStoreHandler construye el handler.
func NewStoreHandler(uc *usecase.StoreUseCase, dashboard *analytics.DashboardUseCase) *StoreHandler {
	return &StoreHandler{uc: uc, dashboard: dashboard}
}

// List godoc
// @Summary      Listar lojas
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Filtrar por estado"
// @Success      200     {object}  dto.APIResponse{data=[]dto.StoreResponse}
// @Router       /api/stores [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.ValidationErrors{{Field: "active", Message: "debe ser true o false"}}
		}
		active = &b
	}
	out, err := h.uc.List(c.UserContext(), active)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener loja
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la loja"
// @Success      200  {object}  dto.APIResponse{data=dto.StoreResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id} [get]
func (h *StoreHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Dashboard godoc
// @Summary      Dashboard de la loja
// @Description  Ventas del día y del mes, stock bajo, parcelas vencidas, clientes y top 5 productos del mes.
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la loja"
// @Success      200  {object}  dto.APIResponse{data=dto.StoreDashboardResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{id}/dashboard [get]
func (h *StoreHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.GetSummary(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear loja
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStoreRequest  true  "Datos de la loja"
// @Success      201   {object}  dto.APIResponse{data=dto.StoreResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stores [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, out, "Loja criada")
}

// Update godoc
// @Summary      Actualizar loja
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la loja"
// @Param        body  body  dto.UpdateStoreRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.APIResponse{data=dto.StoreResponse}
// @Router       /api/stores/{id} [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStoreRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Loja atualizada")
}

// Delete godoc
// @Summary      Desactivar loja
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la loja"
// @Success      200  {object}  dto.APIResponse
// @Router       /api/stores/{id} [delete]
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return okMessage(c, nil, "Loja desativada")
}
