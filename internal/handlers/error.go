package handlers

import (
	"errors"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}

// respondError maps the service error taxonomy onto HTTP statuses:
// validation 400, missing records 404, provider failures 502, everything
// else (including configuration faults) 500.
func respondError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		code = fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrRouteNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		code = fiber.StatusNotFound
	case apperr.IsProvider(err):
		code = fiber.StatusBadGateway
	case apperr.IsConfiguration(err):
		code = fiber.StatusInternalServerError
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
