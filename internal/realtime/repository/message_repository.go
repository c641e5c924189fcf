package repository

import (
	"context"

	"student_community_service/internal/realtime/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition durable direct message store
type MessageRepository interface {
	Insert(ctx context.Context, m *domain.DirectMessage) error
	// FindConversation both directions between two users, oldest first
	FindConversation(ctx context.Context, userA, userB string) ([]domain.DirectMessage, error)
	// MarkConversationRead flips every unread sender->recipient message,
	// returns the number updated
	MarkConversationRead(ctx context.Context, recipient, sender string) (int64, error)
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection("direct_messages"),
	}
}

func (r *messageRepository) Insert(ctx context.Context, m *domain.DirectMessage) error {
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *messageRepository) FindConversation(ctx context.Context, userA, userB string) ([]domain.DirectMessage, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userA, "recipient_id": userB},
			{"sender_id": userB, "recipient_id": userA},
		},
	}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.DirectMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, recipient, sender string) (int64, error) {
	filter := bson.M{"sender_id": sender, "recipient_id": recipient, "read": false}
	update := bson.M{"$set": bson.M{"read": true}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
