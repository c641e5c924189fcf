package app

import (
	"context"

	"student_community_service/internal/realtime/domain"

	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// Insert mock insert notification
func (m *MockNotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// FindByID mock find notification by id
func (m *MockNotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByRecipient mock find notifications by recipient
func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error) {
	args := m.Called(ctx, recipient)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead mock mark one notification read
func (m *MockNotificationRepository) MarkRead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MarkAllRead mock mark all notifications read
func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	args := m.Called(ctx, recipient)
	return args.Get(0).(int64), args.Error(1)
}

// Delete mock delete notification
func (m *MockNotificationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert mock insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.DirectMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindConversation mock find conversation between two users
func (m *MockMessageRepository) FindConversation(ctx context.Context, userA, userB string) ([]domain.DirectMessage, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.DirectMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkConversationRead mock mark conversation read
func (m *MockMessageRepository) MarkConversationRead(ctx context.Context, recipient, sender string) (int64, error) {
	args := m.Called(ctx, recipient, sender)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventRelay Mock EventRelay
type MockEventRelay struct {
	mock.Mock
}

// Emit mock relay emit
func (m *MockEventRelay) Emit(room, event string, payload map[string]interface{}) {
	m.Called(room, event, payload)
}

// UserInRoom mock local presence check
func (m *MockEventRelay) UserInRoom(room, userID string) bool {
	args := m.Called(room, userID)
	return args.Bool(0)
}

// MockPubSub Mock PubSub
type MockPubSub struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockPubSub) Publish(channel string, event domain.Event) error {
	args := m.Called(channel, event)
	return args.Error(0)
}

// PSubscribe mock pattern subscriber
func (m *MockPubSub) PSubscribe(ctx context.Context, pattern string, handler func(ev domain.Event)) error {
	args := m.Called(ctx, pattern, handler)
	return args.Error(0)
}

// MockEventStream Mock EventStream
type MockEventStream struct {
	mock.Mock
}

// Publish mock broker publish
func (m *MockEventStream) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
