package handlers

import (
	"gorm.io/gorm"

	"travelkeep/domain/services"
	"travelkeep/infrastructure/redis"
	"travelkeep/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	AuthService  services.AuthService
	PlaceService services.PlaceService
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth   *AuthHandler
	Place  *PlaceHandler
	Health *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services, db *gorm.DB, redisClient *redis.RedisClient, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:   NewAuthHandler(services.AuthService, cfg),
		Place:  NewPlaceHandler(services.PlaceService),
		Health: NewHealthHandler(db, redisClient),
	}
}
