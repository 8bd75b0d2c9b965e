package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"travelkeep/infrastructure/redis"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db          *gorm.DB
	redisClient *redis.RedisClient
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.RedisClient) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
	}
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status  string `json:"status"` // "ok", "error", "unavailable"
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// DetailedHealthResponse represents detailed health check response
type DetailedHealthResponse struct {
	Status     string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// Health is the liveness endpoint
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now(),
	})
}

// DetailedHealth reports per-component readiness. The database is critical;
// Redis only degrades the detail cache.
func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	response := DetailedHealthResponse{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	allHealthy := true
	hasCriticalFailure := false

	dbHealth := h.checkDatabase(ctx)
	response.Components["database"] = dbHealth
	if dbHealth.Status != "ok" {
		hasCriticalFailure = true
	}

	redisHealth := h.checkRedis(ctx)
	response.Components["redis"] = redisHealth
	if redisHealth.Status != "ok" {
		allHealthy = false
	}

	switch {
	case hasCriticalFailure:
		response.Status = "unhealthy"
	case !allHealthy:
		response.Status = "degraded"
	default:
		response.Status = "healthy"
	}

	status := fiber.StatusOK
	if hasCriticalFailure {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}

	return ComponentHealth{
		Status:  "ok",
		Latency: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentHealth {
	if h.redisClient == nil {
		return ComponentHealth{Status: "unavailable", Message: "not configured"}
	}

	start := time.Now()
	if err := h.redisClient.Ping(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: err.Error()}
	}

	return ComponentHealth{
		Status:  "ok",
		Latency: fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
	}
}
