package handlers

import (
	"errors"
	"log/slog"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, log *slog.Logger, message string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": message,
			"errors":  verr.Fields,
		})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Your cart is empty.",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrConflict), errors.Is(err, repositories.ErrProductInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}

	log.Error(message, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   "internal server error",
	})
}

func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

type cartItemView struct {
	ID         uint            `json:"id"`
	Product    models.Product  `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type cartView struct {
	ID         string          `json:"id"`
	Items      []cartItemView  `json:"items"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

func newCartView(cart *models.Cart) cartView {
	v := cartView{ID: cart.ID, Items: make([]cartItemView, 0, len(cart.Items)), GrandTotal: cart.GrandTotal()}
	for _, item := range cart.Items {
		v.Items = append(v.Items, cartItemView{
			ID:         item.ID,
			Product:    item.Product,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice(),
		})
	}
	return v
}

type orderItemView struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type orderView struct {
	ID            string          `json:"id"`
	UserID        *string         `json:"user_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Postcode      string          `json:"postcode"`
	Paid          bool            `json:"paid"`
	CharityChoice *string         `json:"charity_choice"`
	CreatedAt     string          `json:"created_at"`
	Items         []orderItemView `json:"items"`
	Total         decimal.Decimal `json:"total"`
}

func newOrderView(o *models.Order) orderView {
	v := orderView{
		ID:            o.ID,
		UserID:        o.UserID,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Email:         o.Email,
		Address:       o.Address,
		City:          o.City,
		Postcode:      o.Postcode,
		Paid:          o.Paid,
		CharityChoice: o.CharityChoice,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
		Items:         make([]orderItemView, 0, len(o.Items)),
		Total:         o.Total(),
	}
	for _, item := range o.Items {
		v.Items = append(v.Items, orderItemView{
			ProductID: item.ProductID,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}
	return v
}
