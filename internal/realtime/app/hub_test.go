package app

import (
	"os"
	"sync"
	"testing"

	"student_community_service/internal/realtime/domain"
	"student_community_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	os.Exit(m.Run())
}

// fakeConn records every payload written to it
type fakeConn struct {
	userID string
	mu     sync.Mutex
	writes []domain.WSResponse
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, v.(domain.WSResponse))
	return nil
}

func (c *fakeConn) UserID() string { return c.userID }

func (c *fakeConn) received() []domain.WSResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.WSResponse, len(c.writes))
	copy(out, c.writes)
	return out
}

func TestHubJoinEmitLeave(t *testing.T) {
	hub := NewHub()
	c1 := &fakeConn{userID: "u1"}
	c2 := &fakeConn{userID: "u2"}

	hub.Join(c1, "question:q1")
	hub.Join(c2, "question:q1")

	delivered := hub.Emit("question:q1", domain.EventMessageReceived, map[string]interface{}{"content": "hi"})
	assert.Equal(t, 2, delivered)
	assert.Len(t, c1.received(), 1)
	assert.Len(t, c2.received(), 1)
	assert.Equal(t, domain.EventMessageReceived, c1.received()[0].Action)
	assert.Equal(t, "hi", c1.received()[0].Payload["content"])

	// after leave, c1 no longer receives
	hub.Leave(c1, "question:q1")
	delivered = hub.Emit("question:q1", domain.EventMessageReceived, nil)
	assert.Equal(t, 1, delivered)
	assert.Len(t, c1.received(), 1)
	assert.Len(t, c2.received(), 2)

	// after disconnect, nobody receives
	hub.Disconnect(c2)
	delivered = hub.Emit("question:q1", domain.EventMessageReceived, nil)
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 0, hub.Members("question:q1"))
}

func TestHubLeaveUnknownRoomIsNoop(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{userID: "u1"}

	hub.Leave(c, "never-joined")
	assert.Equal(t, 0, hub.Members("never-joined"))

	// a later join still works
	hub.Join(c, "user:u1")
	assert.Equal(t, 1, hub.Members("user:u1"))
}

func TestHubDisconnectDropsEveryRoom(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{userID: "u1"}

	hub.Join(c, "user:u1")
	hub.Join(c, "question:q1")
	hub.Join(c, "question:q2")

	hub.Disconnect(c)

	assert.Equal(t, 0, hub.Members("user:u1"))
	assert.Equal(t, 0, hub.Members("question:q1"))
	assert.Equal(t, 0, hub.Members("question:q2"))
}

func TestHubEmitToEmptyRoom(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.Emit("user:ghost", domain.EventNotificationCreated, nil))
}

func TestHubUserInRoom(t *testing.T) {
	hub := NewHub()
	c := &fakeConn{userID: "u1"}

	room := domain.PairRoom("u1", "u2")
	assert.False(t, hub.UserInRoom(room, "u1"))

	hub.Join(c, room)
	assert.True(t, hub.UserInRoom(room, "u1"))
	assert.False(t, hub.UserInRoom(room, "u2"))

	hub.Disconnect(c)
	assert.False(t, hub.UserInRoom(room, "u1"))
}
