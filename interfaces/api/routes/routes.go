package routes

import (
	"github.com/gofiber/fiber/v2"

	"travelkeep/interfaces/api/handlers"
	"travelkeep/interfaces/api/middleware"
	"travelkeep/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	SetupHealthRoutes(app, h)

	api := app.Group("/api/v1")
	api.Use(middleware.RateLimiter(&cfg.RateLimit))

	SetupAuthRoutes(api, h, cfg)
	SetupPlaceRoutes(api, h, cfg)

	// WebSocket routes hang off the app root, not the API group
	SetupWebSocketRoutes(app, cfg)
}
