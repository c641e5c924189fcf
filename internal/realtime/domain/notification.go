package domain

// NotificationType definition notification trigger kind
type NotificationType string

const (
	//NotificationAnswer a new answer on the recipient's question
	NotificationAnswer NotificationType = "answer"
	//NotificationComment a new comment on the recipient's post or answer
	NotificationComment NotificationType = "comment"
	//NotificationAnswerAccepted the recipient's answer was accepted
	NotificationAnswerAccepted NotificationType = "answer_accepted"
	//NotificationMentorshipRequest a new mentorship request
	NotificationMentorshipRequest NotificationType = "mentorship_request"
	//NotificationMentorshipAccepted a mentorship request was accepted
	NotificationMentorshipAccepted NotificationType = "mentorship_accepted"
	//NotificationMentorshipRejected a mentorship request was rejected
	NotificationMentorshipRejected NotificationType = "mentorship_rejected"
	//NotificationMessage a direct message arrived while the chat was closed
	NotificationMessage NotificationType = "message"
)

// Notification durable record for one recipient. The ID is assigned once at
// creation and carried through both the database write and the live
// notification_created payload.
type Notification struct {
	ID        string           `bson:"_id" json:"id"`
	Recipient string           `bson:"recipient" json:"recipient"`
	Sender    string           `bson:"sender" json:"sender"`
	Type      NotificationType `bson:"type" json:"type"`
	Content   string           `bson:"content" json:"content"`
	Link      string           `bson:"link,omitempty" json:"link,omitempty"`
	Read      bool             `bson:"read" json:"read"`
	CreatedAt int64            `bson:"created_at" json:"created_at"`
}
