package handlers

import (
	"github.com/ceh6514/mavwalk/server/internal/services"
	"github.com/gofiber/fiber/v2"
)

type RouteHandler struct {
	service *services.RouteService
}

func NewRouteHandler(service *services.RouteService) *RouteHandler {
	return &RouteHandler{service: service}
}

func SetupRouteRoutes(router fiber.Router, service *services.RouteService) {
	h := NewRouteHandler(service)

	router.Get("/routes", h.ResolveRoute)
}

// ResolveRoute godoc
// @Summary Resolve a walking route between two named locations
// @Description Returns the cached route for the ordered pair, fetching it on demand when enabled
// @Tags routes
// @Accept json
// @Produce json
// @Param start query string true "Start location name"
// @Param end query string true "Destination location name"
// @Success 200 {object} models.Route
// @Router /routes [get]
func (h *RouteHandler) ResolveRoute(c *fiber.Ctx) error {
	start := c.Query("start")
	end := c.Query("end")

	route, err := h.service.Resolve(c.UserContext(), start, end)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(route)
}
