package handlers

import (
	"log/slog"

	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles checkout and the order-complete page actions.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	accounts *services.AccountService
	orders   *services.OrderService
	log      *slog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService, accounts *services.AccountService, orders *services.OrderService, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		accounts: accounts,
		orders:   orders,
		log:      log,
	}
}

// RegisterRoutes registers the checkout routes. They need the session and
// optional auth middleware.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)
	router.Post("/create-account", h.HandleCreateAccount)
	router.Get("/orders/last", h.HandleLastOrder)
}

// HandleCheckout converts the session's cart into an order.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var info services.ShippingInfo
	if err := c.BodyParser(&info); err != nil {
		return badBody(c, err)
	}

	order, err := h.checkout.Checkout(c.UserContext(), middleware.CurrentSession(c), middleware.CurrentUser(c), info)
	if err != nil {
		return respondError(c, h.log, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(newOrderView(order))
}

type createAccountRequest struct {
	OrderID  string `json:"order_id"`
	Password string `json:"password"`
}

// HandleCreateAccount registers an account from a guest order.
func (h *CheckoutHandler) HandleCreateAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}

	user, linked, err := h.accounts.CreateAccountFromOrder(c.UserContext(), req.OrderID, req.Password)
	if err != nil {
		return respondError(c, h.log, "Could not create account", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Account created successfully.",
		"user":          user,
		"linked_orders": linked,
	})
}

// HandleLastOrder returns the order most recently placed in this session.
func (h *CheckoutHandler) HandleLastOrder(c *fiber.Ctx) error {
	order, err := h.orders.LastOrder(c.UserContext(), middleware.CurrentSession(c))
	if err != nil {
		return respondError(c, h.log, "No recent order", err)
	}
	return c.JSON(newOrderView(order))
}
