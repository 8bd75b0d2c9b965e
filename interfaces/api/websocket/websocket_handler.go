package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	websocketManager "travelkeep/infrastructure/websocket"
	"travelkeep/pkg/logger"
	"travelkeep/pkg/utils"
)

type WebSocketHandler struct{}

func NewWebSocketHandler() *WebSocketHandler {
	return &WebSocketHandler{}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket joins the client to the place room named by the room
// query parameter and pumps messages until the connection drops.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	var userID uuid.UUID

	if userContext := c.Locals("user"); userContext != nil {
		if user, ok := userContext.(*utils.UserContext); ok {
			userID = user.ID
		}
	}

	if userID == uuid.Nil {
		userID = uuid.New()
		logger.WebSocket("anonymous_connected", "Anonymous client connected", map[string]interface{}{"user_id": userID.String()})
	} else {
		logger.WebSocket("authenticated_connected", "Authenticated client connected", map[string]interface{}{"user_id": userID.String()})
	}

	roomID := c.Query("room", "")

	websocketManager.Manager.RegisterClient(c, userID, roomID)
	defer websocketManager.Manager.UnregisterClient(c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			break
		}
		websocketManager.HandleWebSocketMessage(c, messageType, message)
	}
}
