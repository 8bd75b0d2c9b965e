package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"travelkeep/pkg/logger"
)

// Manager is the process-wide connection registry. Clients join one room —
// the place they are viewing — and receive photo-count events for it.
var Manager = NewConnectionManager()

type client struct {
	conn   *websocket.Conn
	userID uuid.UUID
	roomID string
}

type ConnectionManager struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	rooms   map[string]map[*websocket.Conn]struct{}
}

// Event is one message pushed to a room.
type Event struct {
	Type       string `json:"type"`
	PlaceID    string `json:"place_id,omitempty"`
	PhotoCount int64  `json:"photo_count,omitempty"`
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		clients: make(map[*websocket.Conn]*client),
		rooms:   make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (m *ConnectionManager) RegisterClient(conn *websocket.Conn, userID uuid.UUID, roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clients[conn] = &client{conn: conn, userID: userID, roomID: roomID}
	if roomID != "" {
		if m.rooms[roomID] == nil {
			m.rooms[roomID] = make(map[*websocket.Conn]struct{})
		}
		m.rooms[roomID][conn] = struct{}{}
	}

	logger.WebSocket("client_registered", "Client registered", map[string]interface{}{
		"user_id": userID.String(),
		"room":    roomID,
	})
}

func (m *ConnectionManager) UnregisterClient(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cl, ok := m.clients[conn]
	if !ok {
		return
	}
	delete(m.clients, conn)
	if cl.roomID != "" {
		delete(m.rooms[cl.roomID], conn)
		if len(m.rooms[cl.roomID]) == 0 {
			delete(m.rooms, cl.roomID)
		}
	}

	logger.WebSocket("client_unregistered", "Client unregistered", map[string]interface{}{
		"user_id": cl.userID.String(),
		"room":    cl.roomID,
	})
}

// BroadcastToRoom sends an event to every connection in the room. Write
// failures are logged and the connection is left for its read loop to reap.
func (m *ConnectionManager) BroadcastToRoom(roomID string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.WebSocketError("broadcast_marshal", "Failed to marshal event", err, nil)
		return
	}

	m.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(m.rooms[roomID]))
	for conn := range m.rooms[roomID] {
		conns = append(conns, conn)
	}
	m.mu.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.WebSocketError("broadcast_write", "Failed to write to client", err, map[string]interface{}{"room": roomID})
		}
	}
}

// HandleWebSocketMessage handles an inbound client message. The protocol is
// push-only; anything the client sends is ignored apart from logging.
func HandleWebSocketMessage(conn *websocket.Conn, messageType int, message []byte) {
	logger.Debug(logger.CategoryWebSocket, "client_message", "Ignoring inbound message", map[string]interface{}{
		"message_type": messageType,
		"bytes":        len(message),
	})
}

// PlaceBroadcaster adapts the connection manager to the
// services.PlaceEventBroadcaster interface.
type PlaceBroadcaster struct {
	manager *ConnectionManager
}

func NewPlaceBroadcaster(manager *ConnectionManager) *PlaceBroadcaster {
	return &PlaceBroadcaster{manager: manager}
}

func (b *PlaceBroadcaster) BroadcastPhotoCount(placeID uuid.UUID, count int64) {
	b.manager.BroadcastToRoom(placeID.String(), Event{
		Type:       "photo_count",
		PlaceID:    placeID.String(),
		PhotoCount: count,
	})
}
