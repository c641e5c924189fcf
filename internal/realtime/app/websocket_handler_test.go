package app

import (
	"context"
	"net"
	"testing"
	"time"

	"student_community_service/internal/realtime/domain"
	"student_community_service/pkg/middlewares"
	"student_community_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// wsFixture runs a real fiber listener so a client can exercise the full
// upgrade, auth and action loop over the wire
type wsFixture struct {
	addr    string
	hub     *Hub
	relay   *Relay
	msgRepo *MockMessageRepository
	app     *fiber.App
}

func newWSFixture(t *testing.T) *wsFixture {
	f := &wsFixture{
		hub:     NewHub(),
		msgRepo: new(MockMessageRepository),
	}
	f.relay = NewRelay(f.hub, nil)
	messageUC := NewMessageUseCase(f.msgRepo, f.relay, nil)
	wsHandler := NewCommunityWebsocketHandler(f.hub, messageUC)

	f.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	f.app.Use(middlewares.JWTMiddleware())
	f.app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NoError(t, err)
	f.addr = ln.Addr().String()
	go func() {
		_ = f.app.Listener(ln)
	}()
	t.Cleanup(func() { _ = f.app.Shutdown() })
	return f
}

func (f *wsFixture) dial(t *testing.T, userID string) *gorillaws.Conn {
	tok, err := token.GenerateJWT(userID, "test")
	assert.NoError(t, err)

	conn, _, err := gorillaws.DefaultDialer.Dial("ws://"+f.addr+"/ws?auth="+tok, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	assert.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	return conn
}

func TestWebsocketUpgradeRequiresToken(t *testing.T) {
	f := newWSFixture(t)

	_, res, err := gorillaws.DefaultDialer.Dial("ws://"+f.addr+"/ws", nil)
	assert.ErrorIs(t, err, gorillaws.ErrBadHandshake)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestWebsocketJoinRoomAndReceive(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "u1")

	assert.NoError(t, conn.WriteJSON(domain.WSRequest{
		Action: string(domain.JoinRoom),
		Room:   "question:q1",
	}))

	var ack domain.WSResponse
	assert.NoError(t, conn.ReadJSON(&ack))
	assert.True(t, ack.Success)
	assert.Equal(t, string(domain.JoinRoom), ack.Action)
	assert.Equal(t, "question:q1", ack.Payload["room"])

	// membership is live, an emit on the room reaches the socket
	f.relay.Emit("question:q1", domain.EventMessageReceived, map[string]interface{}{"content": "hi"})

	var ev domain.WSResponse
	assert.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, domain.EventMessageReceived, ev.Action)
	assert.Equal(t, "hi", ev.Payload["content"])
}

func TestWebsocketAutoJoinsUserRoom(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "u1")

	// the connection sits in user:u1 without an explicit join, so pushed
	// notifications land immediately
	f.relay.Emit(domain.UserRoom("u1"), domain.EventNotificationCreated, map[string]interface{}{"content": "new answer"})

	var ev domain.WSResponse
	assert.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, domain.EventNotificationCreated, ev.Action)
}

func TestWebsocketSendMessage(t *testing.T) {
	f := newWSFixture(t)
	f.msgRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	sender := f.dial(t, "u1")
	recipient := f.dial(t, "u2")

	// the recipient watches the pair room
	room := domain.PairRoom("u1", "u2")
	assert.NoError(t, recipient.WriteJSON(domain.WSRequest{Action: string(domain.JoinRoom), Room: room}))
	var joinAck domain.WSResponse
	assert.NoError(t, recipient.ReadJSON(&joinAck))
	assert.True(t, joinAck.Success)

	assert.NoError(t, sender.WriteJSON(domain.WSRequest{
		Action:      string(domain.SendMessage),
		RecipientID: "u2",
		Content:     "hi",
	}))

	var ev domain.WSResponse
	assert.NoError(t, recipient.ReadJSON(&ev))
	assert.Equal(t, domain.EventMessageReceived, ev.Action)
	assert.Equal(t, "hi", ev.Payload["content"])
	assert.Equal(t, "u1", ev.Payload["sender_id"])

	var ack domain.WSResponse
	assert.NoError(t, sender.ReadJSON(&ack))
	assert.True(t, ack.Success)
	assert.Equal(t, ev.Payload["id"], ack.Payload["message_id"])

	f.msgRepo.AssertExpectations(t)
}

func TestWebsocketUnknownAction(t *testing.T) {
	f := newWSFixture(t)
	conn := f.dial(t, "u1")

	assert.NoError(t, conn.WriteJSON(domain.WSRequest{Action: "dance"}))

	var resp domain.WSResponse
	assert.NoError(t, conn.ReadJSON(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "unknown action", resp.Error)
}
