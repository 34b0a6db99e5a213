package handlers

import (
	"log/slog"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler serves the customer's order history.
type OrderHandler struct {
	service *services.OrderService
	log     *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/orders", requireAuth, h.HandleGetOrders)
}

// HandleGetOrders lists the authenticated user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListForUser(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}

	views := make([]orderView, 0, len(orders))
	for i := range orders {
		views = append(views, newOrderView(&orders[i]))
	}
	return c.JSON(views)
}
