package handlers

import (
	"fmt"
	"log/slog"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the visitor's cart.
type CartHandler struct {
	service *services.CartService
	log     *slog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{service: service, log: log}
}

// RegisterRoutes registers the cart routes. They need the session middleware.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", h.HandleAddItem)
	cartRoutes.Post("/remove", h.HandleRemoveItem)
}

// HandleGetCart returns the current cart, creating it on first visit.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.ResolveSession(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return respondError(c, h.log, "Could not load cart", err)
	}
	return c.JSON(newCartView(cart))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

// HandleAddItem adds one unit of a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	ctx := c.UserContext()
	cart, err := h.service.ResolveSession(ctx, middleware.CurrentSession(c))
	if err != nil {
		return respondError(c, h.log, "Could not load cart", err)
	}
	cart, err = h.service.AddItem(ctx, cart, req.ProductID)
	if err != nil {
		return respondError(c, h.log, "Could not add product to cart", err)
	}
	return c.JSON(newCartView(cart))
}

type removeItemRequest struct {
	// Browsers send the id from a data attribute, so both 5 and "5" are accepted.
	ItemID any `json:"item_id"`
}

// HandleRemoveItem deletes a whole line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	var req removeItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	itemID, err := parseItemID(req.ItemID)
	if err != nil {
		return badBody(c, err)
	}

	ctx := c.UserContext()
	cart, err := h.service.ResolveSession(ctx, middleware.CurrentSession(c))
	if err != nil {
		return respondError(c, h.log, "Could not load cart", err)
	}
	cart, err = h.service.RemoveItem(ctx, cart, itemID)
	if err != nil {
		return respondError(c, h.log, "Cart item not found in your cart", err)
	}
	return c.JSON(newCartView(cart))
}

func parseItemID(raw any) (uint, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		if v < 0 || v != float64(uint(v)) {
			return 0, fmt.Errorf("item_id must be a positive integer")
		}
		return uint(v), nil
	case string:
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(v, 10, 0)
		if err != nil {
			return 0, fmt.Errorf("item_id must be a positive integer")
		}
		return uint(n), nil
	default:
		return 0, fmt.Errorf("item_id must be a positive integer")
	}
}
