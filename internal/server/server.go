// Package server assembles the storefront's Fiber application.
package server

import (
	"io"
	"log/slog"
	"time"

	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Options carries the dependencies of NewApp.
type Options struct {
	DB        *gorm.DB
	Sessions  session.Store
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Log       *slog.Logger

	JWTSecret     string
	TokenTTL      time.Duration
	SessionCookie string
	SessionTTL    time.Duration
	SecureCookies bool

	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(opts Options) *fiber.App {
	log := opts.Log
	if opts.Publisher == nil {
		opts.Publisher = events.NopPublisher{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	// --- Services ---
	store := repositories.NewGORMStore(opts.DB)
	linker := services.NewAccountLinker(store, opts.Metrics, log)
	productService := services.NewProductService(store.Products())
	cartService := services.NewCartService(store, opts.Metrics, log)
	checkoutService := services.NewCheckoutService(store, linker, opts.Publisher, opts.Metrics, log)
	accountService := services.NewAccountService(store, linker, log)
	orderService := services.NewOrderService(store.Orders())
	authService := services.NewAuthService(store.Users(), linker, opts.JWTSecret, opts.TokenTTL, log)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, log)
	cartHandler := handlers.NewCartHandler(cartService, log)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, accountService, orderService, log)
	authHandler := handlers.NewAuthHandler(authService, log)
	orderHandler := handlers.NewOrderHandler(orderService, log)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// --- Middleware ---
	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{Output: opts.AccessLog}))
	}
	app.Use(opts.Metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if sqlDB, err := opts.DB.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1",
		middleware.Sessions(middleware.SessionConfig{
			Store:      opts.Sessions,
			CookieName: opts.SessionCookie,
			TTL:        opts.SessionTTL,
			Secure:     opts.SecureCookies,
			Log:        log,
		}),
		middleware.OptionalAuth(authService, log),
	)
	requireAuth := middleware.AuthRequired(authService, log)

	productHandler.RegisterRoutes(apiV1)
	cartHandler.RegisterRoutes(apiV1)
	checkoutHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1, requireAuth)
	orderHandler.RegisterRoutes(apiV1, requireAuth)

	return app
}
