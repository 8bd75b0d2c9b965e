package routes

import (
	"github.com/gofiber/fiber/v2"

	"travelkeep/interfaces/api/handlers"
	"travelkeep/interfaces/api/middleware"
	"travelkeep/pkg/config"
)

func SetupPlaceRoutes(api fiber.Router, h *handlers.Handlers, cfg *config.Config) {
	places := api.Group("/places")
	places.Use(middleware.Protected(cfg.JWT.Secret))

	places.Get("/", h.Place.ListPlaces)
	places.Post("/", h.Place.CreatePlace)
	places.Get("/:id", h.Place.GetPlaceDetail)
	places.Post("/:id/photos", h.Place.UploadPhotos)
}
