package handlers

import (
	"strconv"

	"github.com/ceh6514/mavwalk/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WalkHandler struct {
	service *services.WalkService
}

func NewWalkHandler(service *services.WalkService) *WalkHandler {
	return &WalkHandler{service: service}
}

func SetupWalkRoutes(router fiber.Router, service *services.WalkService) {
	h := NewWalkHandler(service)

	router.Post("/walks", h.CreateWalk)
	router.Post("/walks/:id/join", h.JoinWalk)
	router.Post("/walks/:id/complete", h.CompleteWalk)
	router.Post("/walks/:id/sos", h.TriggerSOS)
}

type SOSRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateWalk godoc
// @Summary Request a walking buddy
// @Tags walks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateWalkRequest true "Walk data"
// @Success 201 {object} models.WalkRequest
// @Router /walks [post]
func (h *WalkHandler) CreateWalk(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req services.CreateWalkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	walk, err := h.service.Create(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(walk)
}

// JoinWalk godoc
// @Summary Join a walk as a buddy
// @Tags walks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Walk ID"
// @Success 200 {object} models.WalkRequest
// @Router /walks/{id}/join [post]
func (h *WalkHandler) JoinWalk(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid walk id"})
	}

	walk, err := h.service.Join(uint(id), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(walk)
}

// CompleteWalk godoc
// @Summary Mark a walk as completed
// @Tags walks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Walk ID"
// @Success 200 {object} models.WalkRequest
// @Router /walks/{id}/complete [post]
func (h *WalkHandler) CompleteWalk(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid walk id"})
	}

	walk, err := h.service.Complete(uint(id), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(walk)
}

// TriggerSOS godoc
// @Summary Raise an SOS alert on a walk
// @Description Persists the alert, then notifies participants and campus safety
// @Tags walks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Walk ID"
// @Param request body SOSRequest false "Last known position"
// @Success 201 {object} models.SOSAlert
// @Router /walks/{id}/sos [post]
func (h *WalkHandler) TriggerSOS(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid walk id"})
	}

	var req SOSRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	alert, err := h.service.TriggerSOS(c.UserContext(), uint(id), userID, req.Latitude, req.Longitude)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(alert)
}
