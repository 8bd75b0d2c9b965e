package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"travelkeep/pkg/logger"
)

// LoggerMiddleware logs one line per request to the api category.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.API("request", "Request handled", map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		})

		return err
	}
}
