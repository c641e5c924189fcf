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

var (
	// ErrNotFound the referenced document does not exist
	ErrNotFound = errors.New("not found")
	// ErrForbidden the actor is not the resource's owner
	ErrForbidden = errors.New("forbidden")
)

// NotificationUseCase materializes durable notifications on domain events
// and attempts best-effort live delivery to the recipient's user room
type NotificationUseCase struct {
	notifRepo repository.NotificationRepository
	relay     EventRelay
	events    repository.EventStream
}

// NewNotificationUseCase init create notification use case. events may be
// nil to disable the broker mirror.
func NewNotificationUseCase(
	notifRepo repository.NotificationRepository,
	relay EventRelay,
	events repository.EventStream,
) *NotificationUseCase {
	return &NotificationUseCase{
		notifRepo: notifRepo,
		relay:     relay,
		events:    events,
	}
}

// Create persist an unread notification and push a live copy to the
// recipient's user room. Returns (nil, nil) when sender and recipient are
// the same user, events about one's own actions are never materialized.
// The live copy and the durable record share one id.
func (uc *NotificationUseCase) Create(
	ctx context.Context,
	recipient, sender string,
	notifType domain.NotificationType,
	content, link string,
) (*domain.Notification, error) {
	if recipient == sender {
		return nil, nil
	}

	n := &domain.Notification{
		ID:        uuid.New().String(),
		Recipient: recipient,
		Sender:    sender,
		Type:      notifType,
		Content:   content,
		Link:      link,
		Read:      false,
		CreatedAt: time.Now().Unix(),
	}

	if err := uc.notifRepo.Insert(ctx, n); err != nil {
		return nil, err
	}

	// live copy, dropped silently when no endpoint is registered
	uc.relay.Emit(domain.UserRoom(recipient), domain.EventNotificationCreated, map[string]interface{}{
		"id":           n.ID,
		"recipient_id": n.Recipient,
		"sender_id":    n.Sender,
		"type":         string(n.Type),
		"content":      n.Content,
		"link":         n.Link,
		"created_at":   n.CreatedAt,
	})

	if uc.events != nil {
		if err := uc.events.Publish(ctx, n.Recipient, n); err != nil {
			logger.Log.Errorf("notification event stream error:", err)
		}
	}

	return n, nil
}

// List the caller's notifications, newest first
func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	return uc.notifRepo.FindByRecipient(ctx, userID)
}

// MarkRead flip one notification to read. Idempotent. Only the recipient
// may acknowledge it.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, userID string) error {
	n, err := uc.notifRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotFound
	}
	if n.Recipient != userID {
		return ErrForbidden
	}
	return uc.notifRepo.MarkRead(ctx, id)
}

// MarkAllRead flip every unread notification of the caller, returns the
// count updated
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return uc.notifRepo.MarkAllRead(ctx, userID)
}

// Delete remove one notification regardless of read state. Only the
// recipient may delete it.
func (uc *NotificationUseCase) Delete(ctx context.Context, id, userID string) error {
	n, err := uc.notifRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotFound
	}
	if n.Recipient != userID {
		return ErrForbidden
	}
	return uc.notifRepo.Delete(ctx, id)
}
