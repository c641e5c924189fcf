package domain

// DirectMessage one persisted chat message between two users
type DirectMessage struct {
	ID          string `bson:"_id" json:"id"`
	SenderID    string `bson:"sender_id" json:"sender_id"`
	RecipientID string `bson:"recipient_id" json:"recipient_id"`
	Content     string `bson:"content" json:"content"`
	Read        bool   `bson:"read" json:"read"`
	CreatedAt   int64  `bson:"created_at" json:"created_at"`
}
