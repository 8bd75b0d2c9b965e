package routes

import (
	"github.com/gofiber/fiber/v2"

	"travelkeep/interfaces/api/handlers"
	"travelkeep/interfaces/api/middleware"
	"travelkeep/pkg/config"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	auth := api.Group("/auth")
	auth.Use(middleware.AuthRateLimiter(&cfg.RateLimit))

	// Google OAuth
	auth.Get("/google", h.Auth.GoogleLogin)
	auth.Get("/google/callback", h.Auth.GoogleCallback)

	auth.Get("/me", middleware.Protected(cfg.JWT.Secret), h.Auth.GetCurrentUser)
	auth.Post("/logout", h.Auth.Logout)
}
