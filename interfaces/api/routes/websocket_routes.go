package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"travelkeep/interfaces/api/middleware"
	websocketHandler "travelkeep/interfaces/api/websocket"
	"travelkeep/pkg/config"
)

func SetupWebSocketRoutes(app *fiber.App, cfg *config.Config) {
	wsHandler := websocketHandler.NewWebSocketHandler()

	// Token comes via query param because browsers cannot set headers on
	// WebSocket upgrades.
	app.Use("/ws", middleware.OptionalWithQueryToken(cfg.JWT.Secret), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
