package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/inventory"
)

// StockHandler maneja el stock por loja.
type StockHandler struct {
	uc            *inventory.StockUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.StockUseCase, replenishment *inventory.ReplenishmentUseCase) *StockHandler {
	return &StockHandler{uc: uc, replenishment: replenishment}
}

// List godoc
// @Summary      Listar stock de una loja
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  true  "ID de la loja"
// @Success      200      {object}  dto.APIResponse{data=[]dto.StockItemResponse}
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	storeID, err := requireStore(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ListByStore(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Search godoc
// @Summary      Buscar stock por datos del producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  true  "ID de la loja"
// @Param        q        query  string  true  "Término"
// @Success      200      {object}  dto.APIResponse{data=[]dto.StockItemResponse}
// @Router       /api/stock/search [get]
func (h *StockHandler) Search(c *fiber.Ctx) error {
	storeID, err := requireStore(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Search(c.UserContext(), storeID, c.Query("q"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// LowStock godoc
// @Summary      Items con stock bajo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  true  "ID de la loja"
// @Success      200      {object}  dto.APIResponse{data=[]dto.StockItemResponse}
// @Router       /api/stock/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	storeID, err := requireStore(c)
	if err != nil {
		return err
	}
	out, err := h.uc.LowStock(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Report godoc
// @Summary      Reporte valorizado de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  true  "ID de la loja"
// @Success      200      {object}  dto.APIResponse{data=dto.StockReportResponse}
// @Router       /api/stock/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	storeID, err := requireStore(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Report(c.UserContext(), storeID)
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Description  Items bajo el mínimo ordenados por margen, volumen vendido (90 días) y déficit.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        storeId  path  string  true  "ID de la loja"
// @Success      200      {object}  dto.APIResponse{data=[]dto.ReplenishmentSuggestion}
// @Router       /api/stock/store/{storeId}/replenishment [get]
func (h *StockHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.Suggestions(c.UserContext(), c.Params("storeId"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByID godoc
// @Summary      Obtener item de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.APIResponse{data=dto.StockItemResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [get]
func (h *StockHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// GetByProductAndStore godoc
// @Summary      Obtener stock de un producto en una loja
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Param        storeId    path  string  true  "ID de la loja"
// @Success      200        {object}  dto.APIResponse{data=dto.StockItemResponse}
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/stock/product/{productId}/store/{storeId} [get]
func (h *StockHandler) GetByProductAndStore(c *fiber.Ctx) error {
	out, err := h.uc.GetByProductAndStore(c.UserContext(), c.Params("productId"), c.Params("storeId"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear item de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "Datos del item"
// @Success      201   {object}  dto.APIResponse{data=dto.StockItemResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, out, "Estoque criado")
}

// Update godoc
// @Summary      Actualizar item de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del item"
// @Param        body  body  dto.UpdateStockItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.APIResponse{data=dto.StockItemResponse}
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockItemRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Estoque atualizado")
}

// AdjustQuantity godoc
// @Summary      Ajustar cantidad
// @Description  set fija la cantidad; add y subtract aplican un delta. subtract sin existencia suficiente devuelve 409.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del item"
// @Param        body  body  dto.AdjustQuantityRequest  true  "quantity y operation"
// @Success      200   {object}  dto.APIResponse{data=dto.StockItemResponse}
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/{id}/quantity [patch]
func (h *StockHandler) AdjustQuantity(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AdjustQuantity(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Quantidade atualizada")
}

// Delete godoc
// @Summary      Eliminar item de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.APIResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	soft, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return okMessage(c, nil, deleteMessage("Estoque", soft))
}
