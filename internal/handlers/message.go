package handlers

import (
	"strconv"
	"strings"

	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/middleware"
	"github.com/ceh6514/mavwalk/server/internal/moderation"
	"github.com/ceh6514/mavwalk/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(db *database.DB, cfg *config.Config, filter *moderation.Filter) *MessageHandler {
	return &MessageHandler{
		service: services.NewMessageService(db, cfg, filter),
	}
}

func SetupMessageRoutes(router fiber.Router, db *database.DB, cfg *config.Config, filter *moderation.Filter) {
	h := NewMessageHandler(db, cfg, filter)

	gate := middleware.ModerationGate(middleware.ModerationConfig{
		Filter: filter,
		Extract: func(c *fiber.Ctx) (string, bool) {
			var req services.CreateMessageRequest
			if err := c.BodyParser(&req); err != nil {
				return "", false
			}
			if strings.TrimSpace(req.Text) == "" {
				return "", false
			}
			return req.Text, true
		},
		Write: func(c *fiber.Ctx, masked string) {
			c.Locals("maskedText", masked)
		},
	})

	router.Post("/messages", gate, h.CreateMessage)
	router.Get("/messages", h.ListMessages)
	router.Patch("/messages/:id/status",
		middleware.AuthRequired(cfg), middleware.StaffRequired(), h.ReviewMessage)
}

// CreateMessage godoc
// @Summary Submit an encouragement message
// @Description Text is moderated before storage; flagged content is masked
// @Tags messages
// @Accept json
// @Produce json
// @Param request body services.CreateMessageRequest true "Message data"
// @Success 201 {object} models.Message
// @Router /messages [post]
func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	var req services.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// the gate already classified and masked; persist what it produced
	result, _ := c.Locals(middleware.ClassificationKey).(middleware.ModerationResult)
	if masked, ok := c.Locals("maskedText").(string); ok {
		req.Text = masked
	}
	category := result.Classification.Category
	if category == "" {
		category = moderation.CategoryClean
	}

	message, err := h.service.CreateModerated(&req, category)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(message)
}

// ListMessages godoc
// @Summary List messages
// @Tags messages
// @Accept json
// @Produce json
// @Param status query string false "Filter by status"
// @Param start_location_id query int false "Filter by start location"
// @Param end_location_id query int false "Filter by destination"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} services.MessageListResponse
// @Router /messages [get]
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	var startID, endID *uint
	if v, err := strconv.ParseUint(c.Query("start_location_id"), 10, 32); err == nil {
		id := uint(v)
		startID = &id
	}
	if v, err := strconv.ParseUint(c.Query("end_location_id"), 10, 32); err == nil {
		id := uint(v)
		endID = &id
	}

	resp, err := h.service.List(c.Query("status"), startID, endID, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// ReviewMessage godoc
// @Summary Update a message's review status
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param request body services.UpdateMessageStatusRequest true "New status"
// @Success 200 {object} models.Message
// @Router /messages/{id}/status [patch]
func (h *MessageHandler) ReviewMessage(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid message id"})
	}

	var req services.UpdateMessageStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	reviewerID := c.Locals("userID").(uint)
	message, err := h.service.UpdateStatus(uint(id), reviewerID, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(message)
}
