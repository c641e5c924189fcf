package app

import (
	"errors"

	"student_community_service/internal/realtime/domain"
	"student_community_service/pkg/logger"
	"student_community_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CommunityHTTPHandler REST surface for durable notification and message
// state. Errors are {"message": string} with a 4xx/5xx status.
type CommunityHTTPHandler struct {
	notificationUC *NotificationUseCase
	messageUC      *MessageUseCase
}

// NewCommunityHTTPHandler create CommunityHTTPHandler
func NewCommunityHTTPHandler(notificationUC *NotificationUseCase, messageUC *MessageUseCase) *CommunityHTTPHandler {
	return &CommunityHTTPHandler{
		notificationUC: notificationUC,
		messageUC:      messageUC,
	}
}

func callerID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)
	return userID
}

// ListNotifications GET /api/notifications
func (h *CommunityHTTPHandler) ListNotifications(c *fiber.Ctx) error {
	userID := callerID(c)
	notifications, err := h.notificationUC.List(c.Context(), userID)
	if err != nil {
		logger.Log.Error("list notifications failed", zap.String("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return c.JSON(notifications)
}

// CreateNotification POST /api/notifications/create. The caller is the
// sender; trusted backend peers materialize domain events through here.
func (h *CommunityHTTPHandler) CreateNotification(c *fiber.Ctx) error {
	var body struct {
		RecipientID string `json:"recipient_id"`
		Type        string `json:"type"`
		Content     string `json:"content"`
		Link        string `json:"link"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if body.RecipientID == "" || body.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "recipient_id and content are required"})
	}

	userID := callerID(c)
	n, err := h.notificationUC.Create(c.Context(), body.RecipientID, userID,
		domain.NotificationType(body.Type), body.Content, body.Link)
	if err != nil {
		logger.Log.Error("create notification failed", zap.String("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	if n == nil {
		// self notification, nothing materialized
		return c.JSON(fiber.Map{"message": "Notification skipped"})
	}
	return c.Status(fiber.StatusCreated).JSON(n)
}

// MarkNotificationRead PATCH /api/notifications/:id/read
func (h *CommunityHTTPHandler) MarkNotificationRead(c *fiber.Ctx) error {
	userID := callerID(c)
	id := c.Params("id")

	err := h.notificationUC.MarkRead(c.Context(), id, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Notification not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not the notification recipient"})
	case err != nil:
		logger.Log.Error("mark notification read failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead PATCH /api/notifications/read-all
func (h *CommunityHTTPHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := callerID(c)
	updated, err := h.notificationUC.MarkAllRead(c.Context(), userID)
	if err != nil {
		logger.Log.Error("mark all notifications read failed", zap.String("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read", "updated": updated})
}

// DeleteNotification DELETE /api/notifications/:id
func (h *CommunityHTTPHandler) DeleteNotification(c *fiber.Ctx) error {
	userID := callerID(c)
	id := c.Params("id")

	err := h.notificationUC.Delete(c.Context(), id, userID)
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Notification not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not the notification recipient"})
	case err != nil:
		logger.Log.Error("delete notification failed", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Notification deleted"})
}

// GetConversation GET /api/messages/:peerId
func (h *CommunityHTTPHandler) GetConversation(c *fiber.Ctx) error {
	userID := callerID(c)
	peerID := c.Params("peerId")

	messages, err := h.messageUC.Conversation(c.Context(), userID, peerID)
	if err != nil {
		logger.Log.Error("get conversation failed", zap.String("userID", userID), zap.String("peerID", peerID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	if messages == nil {
		messages = []domain.DirectMessage{}
	}
	return c.JSON(messages)
}

// SendMessage POST /api/messages
func (h *CommunityHTTPHandler) SendMessage(c *fiber.Ctx) error {
	var body struct {
		RecipientID string `json:"recipient_id"`
		Content     string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}
	if body.RecipientID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "recipient_id is required"})
	}

	userID := callerID(c)
	m, err := h.messageUC.Send(c.Context(), userID, body.RecipientID, body.Content)
	switch {
	case errors.Is(err, ErrEmptyContent):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "content is required"})
	case err != nil:
		logger.Log.Error("send message failed", zap.String("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// MarkConversationRead PUT /api/messages/read/:peerId
func (h *CommunityHTTPHandler) MarkConversationRead(c *fiber.Ctx) error {
	userID := callerID(c)
	peerID := c.Params("peerId")

	updated, err := h.messageUC.MarkConversationRead(c.Context(), userID, peerID)
	if err != nil {
		logger.Log.Error("mark conversation read failed", zap.String("userID", userID), zap.String("peerID", peerID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.JSON(fiber.Map{"message": "Conversation marked as read", "updated": updated})
}
