package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/application/usecase"
)

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List godoc
// @Summary      Listar clientes de la loja
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  false  "ID de la loja (por defecto la del token)"
// @Success      200      {object}  dto.APIResponse{data=[]dto.CustomerResponse}
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
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
// @Summary      Buscar clientes por nombre, CPF, teléfono o email
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        storeId  query  string  false  "ID de la loja"
// @Param        q        query  string  false  "Término de búsqueda"
// @Success      200      {object}  dto.APIResponse{data=[]dto.CustomerResponse}
// @Router       /api/customers/search [get]
func (h *CustomerHandler) Search(c *fiber.Ctx) error {
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

// GetByID godoc
// @Summary      Obtener cliente con ventas y parcelas abiertas
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.APIResponse{data=dto.CustomerResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Balance godoc
// @Summary      Saldo deudor del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.APIResponse{data=dto.CustomerBalanceResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/balance [get]
func (h *CustomerHandler) Balance(c *fiber.Ctx) error {
	out, err := h.uc.Balance(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Sales godoc
// @Summary      Historial de compras del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.APIResponse{data=[]dto.SaleResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/sales [get]
func (h *CustomerHandler) Sales(c *fiber.Ctx) error {
	out, err := h.uc.Sales(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, out)
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.APIResponse{data=dto.CustomerResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return created(c, out, "Cliente criado")
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.APIResponse{data=dto.CustomerResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return okMessage(c, out, "Cliente atualizado")
}

// Delete godoc
// @Summary      Eliminar cliente (lógico si tiene ventas)
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	soft, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return okMessage(c, nil, deleteMessage("Cliente", soft))
}
