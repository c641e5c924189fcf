package app

import (
	"sync"

	"student_community_service/internal/realtime/domain"
	"student_community_service/pkg/logger"

	"go.uber.org/zap"
)

// Conn is the write side of one connected client
type Conn interface {
	WriteJSON(v interface{}) error
	UserID() string
}

// Hub is the in-memory room registry and local event relay. One instance is
// shared by every handler; membership lives for the process lifetime and is
// dropped on leave or disconnect.
type Hub struct {
	mu sync.RWMutex
	// room name -> member set
	rooms map[string]map[Conn]struct{}
	// reverse index so Disconnect can drop a conn from every room
	conns map[Conn]map[string]struct{}
}

// NewHub create Hub
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Conn]struct{}),
		conns: make(map[Conn]map[string]struct{}),
	}
}

// Join add the connection to the room, creating the room if needed
func (h *Hub) Join(c Conn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[Conn]struct{})
	}
	h.rooms[room][c] = struct{}{}

	if h.conns[c] == nil {
		h.conns[c] = make(map[string]struct{})
	}
	h.conns[c][room] = struct{}{}
}

// Leave remove the connection from the room. Leaving a room the connection
// never joined is a no-op.
func (h *Hub) Leave(c Conn, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

// Disconnect remove the connection from every room it belongs to
func (h *Hub) Disconnect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.conns[c] {
		h.leaveLocked(c, room)
	}
}

func (h *Hub) leaveLocked(c Conn, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.conns[c]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(h.conns, c)
		}
	}
}

// Emit deliver the event to every current member of the room. At-most-once,
// write errors are logged and the member skipped. Returns the delivered
// count.
func (h *Hub) Emit(room, event string, payload map[string]interface{}) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := domain.WSResponse{
		Action:  event,
		Success: true,
		Payload: payload,
	}

	delivered := 0
	for c := range h.rooms[room] {
		if err := c.WriteJSON(resp); err != nil {
			logger.Log.Error("hub write error",
				zap.String("room", room),
				zap.String("event", event),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}
	return delivered
}

// Members current member count of the room
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// UserInRoom report whether any connection of the user is a member of the
// room. Local to this instance only.
func (h *Hub) UserInRoom(room, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[room] {
		if c.UserID() == userID {
			return true
		}
	}
	return false
}
