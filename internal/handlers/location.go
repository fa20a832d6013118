package handlers

import (
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type LocationHandler struct {
	service *services.LocationService
}

func NewLocationHandler(db *database.DB) *LocationHandler {
	return &LocationHandler{
		service: services.NewLocationService(db),
	}
}

func SetupLocationRoutes(router fiber.Router, db *database.DB) {
	h := NewLocationHandler(db)

	router.Get("/locations", h.ListLocations)
}

// ListLocations godoc
// @Summary List campus locations
// @Tags locations
// @Accept json
// @Produce json
// @Success 200 {array} models.Location
// @Router /locations [get]
func (h *LocationHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.service.List()
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(locations)
}
