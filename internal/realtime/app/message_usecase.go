package app

import (
	"context"
	"errors"
	"time"

	"student_community_service/internal/realtime/domain"
	"student_community_service/internal/realtime/repository"
	"student_community_service/pkg/logger"

	"github.com/google/uuid"
)

// ErrEmptyContent the message body is empty
var ErrEmptyContent = errors.New("message content is empty")

// MessageUseCase persists direct messages and relays them to the canonical
// pair room
type MessageUseCase struct {
	msgRepo repository.MessageRepository
	relay   EventRelay
	notifUC *NotificationUseCase
}

// NewMessageUseCase init create message use case
func NewMessageUseCase(
	msgRepo repository.MessageRepository,
	relay EventRelay,
	notifUC *NotificationUseCase,
) *MessageUseCase {
	return &MessageUseCase{
		msgRepo: msgRepo,
		relay:   relay,
		notifUC: notifUC,
	}
}

// Send persist the message, then push message_received to the pair room.
// The durable write and the live payload carry the same id. Live delivery
// is best effort and never fails the send. When the recipient has no
// connection in the pair room a durable message notification is left on
// their user room instead.
func (uc *MessageUseCase) Send(ctx context.Context, senderID, recipientID, content string) (*domain.DirectMessage, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	m := &domain.DirectMessage{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Read:        false,
		CreatedAt:   time.Now().Unix(),
	}

	if err := uc.msgRepo.Insert(ctx, m); err != nil {
		return nil, err
	}

	room := domain.PairRoom(senderID, recipientID)
	recipientWatching := uc.relay.UserInRoom(room, recipientID)

	uc.relay.Emit(room, domain.EventMessageReceived, map[string]interface{}{
		"id":           m.ID,
		"sender_id":    m.SenderID,
		"recipient_id": m.RecipientID,
		"content":      m.Content,
		"created_at":   m.CreatedAt,
	})

	if !recipientWatching && uc.notifUC != nil {
		_, err := uc.notifUC.Create(ctx, recipientID, senderID,
			domain.NotificationMessage, m.Content, "/messages/"+senderID)
		if err != nil {
			// the message itself is already durable, only the
			// notification copy is lost
			logger.Log.Errorf("message notification error:", err)
		}
	}

	return m, nil
}

// Conversation both directions between the caller and the peer, oldest
// first
func (uc *MessageUseCase) Conversation(ctx context.Context, userID, peerID string) ([]domain.DirectMessage, error) {
	return uc.msgRepo.FindConversation(ctx, userID, peerID)
}

// MarkConversationRead flip every unread peer->caller message, returns the
// count updated
func (uc *MessageUseCase) MarkConversationRead(ctx context.Context, userID, peerID string) (int64, error) {
	return uc.msgRepo.MarkConversationRead(ctx, userID, peerID)
}

// Typing relay a typing indicator to the pair room, nothing is persisted
func (uc *MessageUseCase) Typing(senderID, recipientID string, stopped bool) {
	event := domain.EventTyping
	if stopped {
		event = domain.EventStopTyping
	}
	uc.relay.Emit(domain.PairRoom(senderID, recipientID), event, map[string]interface{}{
		"sender_id":    senderID,
		"recipient_id": recipientID,
	})
}
