package app

import (
	"context"
	"errors"
	"testing"

	"student_community_service/internal/realtime/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationUseCaseCreate(t *testing.T) {
	ctx := context.Background()
	recipient := uuid.New().String()
	sender := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockRelay := new(MockEventRelay)

	var inserted *domain.Notification
	mockRepo.On("Insert", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*domain.Notification)
	})

	var payload map[string]interface{}
	mockRelay.On("Emit", domain.UserRoom(recipient), domain.EventNotificationCreated, mock.Anything).Run(func(args mock.Arguments) {
		payload = args.Get(2).(map[string]interface{})
	})

	uc := NewNotificationUseCase(mockRepo, mockRelay, nil)
	n, err := uc.Create(ctx, recipient, sender, domain.NotificationComment, "B commented on your post", "/posts/p1")

	assert.NoError(t, err)
	assert.NotNil(t, n)
	assert.False(t, n.Read)
	assert.Equal(t, recipient, n.Recipient)
	assert.Equal(t, sender, n.Sender)
	assert.NotEmpty(t, n.ID)

	// the durable record and the live payload share one id
	assert.Equal(t, inserted.ID, n.ID)
	assert.Equal(t, n.ID, payload["id"])
	assert.Equal(t, "B commented on your post", payload["content"])

	mockRepo.AssertExpectations(t)
	mockRelay.AssertExpectations(t)
}

func TestNotificationUseCaseCreateSkipsSelf(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockRelay := new(MockEventRelay)

	uc := NewNotificationUseCase(mockRepo, mockRelay, nil)
	n, err := uc.Create(ctx, userID, userID, domain.NotificationComment, "own comment", "")

	assert.NoError(t, err)
	assert.Nil(t, n)
	mockRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockRelay.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationUseCaseCreatePersistenceFailure(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRelay := new(MockEventRelay)
	mockRepo.On("Insert", ctx, mock.Anything).Return(errors.New("db down"))

	uc := NewNotificationUseCase(mockRepo, mockRelay, nil)
	n, err := uc.Create(ctx, "u1", "u2", domain.NotificationAnswer, "new answer", "")

	assert.Error(t, err)
	assert.Nil(t, n)
	// no live copy without a durable record
	mockRelay.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationUseCaseCreateMirrorsEventStream(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRelay := new(MockEventRelay)
	mockEvents := new(MockEventStream)

	mockRepo.On("Insert", ctx, mock.Anything).Return(nil)
	mockRelay.On("Emit", mock.Anything, mock.Anything, mock.Anything)
	mockEvents.On("Publish", ctx, "u1", mock.Anything).Return(nil)

	uc := NewNotificationUseCase(mockRepo, mockRelay, mockEvents)
	_, err := uc.Create(ctx, "u1", "u2", domain.NotificationAnswer, "new answer", "")

	assert.NoError(t, err)
	mockEvents.AssertExpectations(t)
}

func TestNotificationUseCaseCreateSwallowsEventStreamError(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRelay := new(MockEventRelay)
	mockEvents := new(MockEventStream)

	mockRepo.On("Insert", ctx, mock.Anything).Return(nil)
	mockRelay.On("Emit", mock.Anything, mock.Anything, mock.Anything)
	mockEvents.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	uc := NewNotificationUseCase(mockRepo, mockRelay, mockEvents)
	n, err := uc.Create(ctx, "u1", "u2", domain.NotificationAnswer, "new answer", "")

	assert.NoError(t, err)
	assert.NotNil(t, n)
}

func TestNotificationUseCaseMarkRead(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockRelay := new(MockEventRelay)

	mockRepo.On("FindByID", ctx, id).Return(&domain.Notification{ID: id, Recipient: "u1"}, nil)
	mockRepo.On("MarkRead", ctx, id).Return(nil)

	uc := NewNotificationUseCase(mockRepo, mockRelay, nil)
	assert.NoError(t, uc.MarkRead(ctx, id, "u1"))
	mockRepo.AssertExpectations(t)
}

func TestNotificationUseCaseMarkReadIdempotent(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	mockRepo := new(MockNotificationRepository)

	// already read, acknowledging again is not an error
	mockRepo.On("FindByID", ctx, id).Return(&domain.Notification{ID: id, Recipient: "u1", Read: true}, nil)
	mockRepo.On("MarkRead", ctx, id).Return(nil)

	uc := NewNotificationUseCase(mockRepo, new(MockEventRelay), nil)
	assert.NoError(t, uc.MarkRead(ctx, id, "u1"))
	assert.NoError(t, uc.MarkRead(ctx, id, "u1"))
}

func TestNotificationUseCaseMarkReadNotFound(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	uc := NewNotificationUseCase(mockRepo, new(MockEventRelay), nil)
	err := uc.MarkRead(ctx, "missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
	mockRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestNotificationUseCaseMarkReadForbidden(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("FindByID", ctx, id).Return(&domain.Notification{ID: id, Recipient: "u1"}, nil)

	uc := NewNotificationUseCase(mockRepo, new(MockEventRelay), nil)
	err := uc.MarkRead(ctx, id, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)
	mockRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestNotificationUseCaseMarkAllRead(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("MarkAllRead", ctx, "u1").Return(int64(3), nil)

	uc := NewNotificationUseCase(mockRepo, new(MockEventRelay), nil)
	updated, err := uc.MarkAllRead(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), updated)
}

func TestNotificationUseCaseDelete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	mockRepo := new(MockNotificationRepository)

	// deletion is independent of read state
	mockRepo.On("FindByID", ctx, id).Return(&domain.Notification{ID: id, Recipient: "u1", Read: false}, nil)
	mockRepo.On("Delete", ctx, id).Return(nil)

	uc := NewNotificationUseCase(mockRepo, new(MockEventRelay), nil)
	assert.NoError(t, uc.Delete(ctx, id, "u1"))
	mockRepo.AssertExpectations(t)
}

func TestNotificationUseCaseDeleteForbidden(t *testing.T) {
	ctx := context.Background()
	id := uuid.New().String()

	mockRepo := new(MockNotificationRepository)
	mockRepo.On("FindByID", ctx, id).Return(&domain.Notification{ID: id, Recipient: "u1"}, nil)

	uc := NewNotificationUseCase(mockRepo, new(MockEventRelay), nil)
	assert.ErrorIs(t, uc.Delete(ctx, id, "intruder"), ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
