package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/pkg/logger"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(dto.APIResponse{Success: true, Data: data})
}

func okMessage(c *fiber.Ctx, data any, message string) error {
	return c.JSON(dto.APIResponse{Success: true, Data: data, Message: message})
}

func created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(dto.APIResponse{Success: true, Data: data, Message: message})
}

func fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Error: message})
}

// errorStatus traduce un error de dominio a status HTTP y código.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// NewErrorHandler ErrorHandler global de Fiber. Los handlers devuelven errores de
// dominio y aquí se construye el sobre de error. En producción un 500 no expone el detalle.
func NewErrorHandler(log *logger.Logger, development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			if fe.Code == fiber.StatusNotFound {
				code = "NOT_FOUND"
			}
			return fail(c, fe.Code, code, fe.Message)
		}

		status, code := errorStatus(err)
		body := dto.ErrorResponse{Code: code, Error: err.Error()}
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			body.Error = "entrada inválida"
			body.Details = verrs
		}
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Interface("request_id", c.Locals("requestid")).
				Msg("error interno")
			if !development {
				body.Error = "error interno del servidor"
			}
		}
		return c.Status(status).JSON(body)
	}
}
