package handlers

import (
	"log/slog"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service *services.ProductService
	log     *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{service: service, log: log}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// HandleGetProducts lists the catalog. Supported query parameters:
// category, sub_category, new_arrival=true and featured=true.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	filter := models.ProductFilter{
		Category:    c.Query("category"),
		SubCategory: c.Query("sub_category"),
		NewArrival:  c.QueryBool("new_arrival"),
		Featured:    c.QueryBool("featured"),
	}
	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Product not found", err)
	}
	return c.JSON(product)
}
