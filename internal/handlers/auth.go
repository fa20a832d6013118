package handlers

import (
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/middleware"
	"github.com/ceh6514/mavwalk/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(db *database.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service: services.NewAuthService(db, cfg),
	}
}

func SetupAuthRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewAuthHandler(db, cfg)

	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Post("/refresh", h.Refresh)

	// Devices
	router.Post("/devices", middleware.AuthRequired(cfg), h.RegisterDevice)
	router.Delete("/devices", middleware.AuthRequired(cfg), h.UnregisterDevice)
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Account data"
// @Success 201 {object} services.AuthResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.service.Register(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Log in with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Credentials"
// @Success 200 {object} services.AuthResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} services.AuthResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req services.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resp, err := h.service.Refresh(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// RegisterDevice godoc
// @Summary Register an FCM device token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.RegisterDeviceRequest true "Device data"
// @Success 201 {object} models.FCMDevice
// @Router /auth/devices [post]
func (h *AuthHandler) RegisterDevice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.RegisterDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	device, err := h.service.RegisterDevice(userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(device)
}

// UnregisterDevice godoc
// @Summary Deactivate an FCM device token
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token query string true "Device token"
// @Success 204
// @Router /auth/devices [delete]
func (h *AuthHandler) UnregisterDevice(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	token := c.Query("token")
	if err := h.service.UnregisterDevice(userID, token); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
