package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"student_community_service/internal/realtime/domain"
	"student_community_service/pkg/logger"
	"student_community_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// wsClient wraps one fiber websocket connection. The mutex serializes
// writes, the relay and the read loop both write to the same conn.
type wsClient struct {
	conn   *websocket.Conn
	userID string
	mu     sync.Mutex
}

func (c *wsClient) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsClient) UserID() string {
	return c.userID
}

// CommunityWebsocketHandler dispatches inbound websocket actions onto the
// hub and the use cases
type CommunityWebsocketHandler struct {
	hub       *Hub
	messageUC *MessageUseCase
}

// NewCommunityWebsocketHandler create CommunityWebsocketHandler
func NewCommunityWebsocketHandler(hub *Hub, messageUC *MessageUseCase) *CommunityWebsocketHandler {
	return &CommunityWebsocketHandler{
		hub:       hub,
		messageUC: messageUC,
	}
}

// HandleConnection entry point of one WebSocket connection. The connection
// is placed in the user's personal notification room immediately; every
// other room is joined on request.
func (h *CommunityWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	userID, ok := conn.Locals(middlewares.TokenUserID).(string)
	logger.Log.Info("websocket connected", zap.String("userID", userID), zap.Bool("ok", ok))

	client := &wsClient{conn: conn, userID: userID}

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("userID", userID))
		h.hub.Disconnect(client)
		conn.Close()
		cancel()
	}()

	//client close is surfaced by fiber as a read error, the handler only logs
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("received pong", zap.String("userID", userID))
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	h.hub.Join(client, domain.UserRoom(userID))

	// keepalive ping
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := client.WriteJSON(domain.WSResponse{Action: "ping", Success: true}); err != nil {
					logger.Log.Errorf("ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		h.execWebsocketAction(ctx, client, mt, message)
	}
}

func (h *CommunityWebsocketHandler) execWebsocketAction(ctx context.Context, client *wsClient, mt int, msg []byte) {
	switch mt {
	case websocket.TextMessage:
		h.textMessageAction(ctx, client, msg)
	default:
		h.sendError(client, "unknown message type")
	}
}

func (h *CommunityWebsocketHandler) textMessageAction(ctx context.Context, client *wsClient, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.sendError(client, "invalid request payload")
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	switch req.Action {
	case string(domain.JoinRoom):
		room := h.resolveRoom(client.userID, req)
		if room == "" {
			resp.Error = "room is required"
			break
		}
		h.hub.Join(client, room)
		resp.Success = true
		resp.Payload["room"] = room

	case string(domain.LeaveRoom):
		room := h.resolveRoom(client.userID, req)
		if room == "" {
			resp.Error = "room is required"
			break
		}
		h.hub.Leave(client, room)
		resp.Success = true
		resp.Payload["room"] = room

	case string(domain.SendMessage):
		if req.RecipientID == "" {
			resp.Error = "recipient_id is required"
			break
		}
		m, err := h.messageUC.Send(ctx, client.userID, req.RecipientID, req.Content)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Success = true
			resp.Payload["message_id"] = m.ID
		}

	case string(domain.Typing):
		h.messageUC.Typing(client.userID, req.RecipientID, false)
		resp.Success = true

	case string(domain.StopTyping):
		h.messageUC.Typing(client.userID, req.RecipientID, true)
		resp.Success = true

	default:
		h.sendError(client, "unknown action")
		return
	}

	if resp.Error != "" {
		logger.Log.Error("websocket err",
			zap.String("UserID", client.userID),
			zap.String("Action", req.Action),
			zap.String("err", resp.Error),
		)
	}
	h.sendResponse(client, resp)
}

// resolveRoom take the explicit room name, or derive the canonical pair
// room when only the peer is given
func (h *CommunityWebsocketHandler) resolveRoom(userID string, req domain.WSRequest) string {
	if req.Room != "" {
		return req.Room
	}
	if req.RecipientID != "" {
		return domain.PairRoom(userID, req.RecipientID)
	}
	return ""
}

func (h *CommunityWebsocketHandler) sendResponse(client *wsClient, resp domain.WSResponse) {
	if err := client.WriteJSON(resp); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *CommunityWebsocketHandler) sendError(client *wsClient, errorMsg string) {
	h.sendResponse(client, domain.WSResponse{
		Action:  "error",
		Success: false,
		Error:   errorMsg,
	})
}
