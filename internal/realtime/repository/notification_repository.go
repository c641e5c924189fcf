package repository

import (
	"context"
	"errors"

	"student_community_service/internal/realtime/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository definition durable notification store
type NotificationRepository interface {
	Insert(ctx context.Context, n *domain.Notification) error
	// FindByID returns (nil, nil) when no document matches
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	// FindByRecipient newest first
	FindByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	// MarkAllRead returns the number of documents flipped to read
	MarkAllRead(ctx context.Context, recipient string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type notificationRepository struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepository create a NotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{
		coll: db.Collection("notifications"),
	}
}

func (r *notificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	_, err := r.coll.InsertOne(ctx, n)
	return err
}

func (r *notificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipient string) ([]domain.Notification, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := r.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, err
	}
	var notifications []domain.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead idempotent, updating an already-read notification is a no-op
func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"read": true}}
	_, err := r.coll.UpdateOne(ctx, filter, update)
	return err
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipient string) (int64, error) {
	filter := bson.M{"recipient": recipient, "read": false}
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
