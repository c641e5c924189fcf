package domain

// Action websocket request action
type Action string

const (
	// JoinRoom websocket action join_room
	JoinRoom Action = "join_room"
	// LeaveRoom websocket action leave_room
	LeaveRoom Action = "leave_room"
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// Typing websocket action typing
	Typing Action = "typing"
	// StopTyping websocket action stop_typing
	StopTyping Action = "stop_typing"
)

// Event names pushed to clients. One vocabulary for every emitting
// component, no per-handler variants.
const (
	// EventMessageReceived a chat message was persisted for the room
	EventMessageReceived = "message_received"
	// EventTyping the peer started typing
	EventTyping = "typing"
	// EventStopTyping the peer stopped typing
	EventStopTyping = "stop_typing"
	// EventNotificationCreated a durable notification was created
	EventNotificationCreated = "notification_created"
)

// WSRequest websocket Request
type WSRequest struct {
	Action      string `json:"action"`
	Room        string `json:"room"`
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Event envelope relayed between service instances over pub/sub. Origin is
// the emitting instance id, used to drop self-published copies.
type Event struct {
	Room    string                 `json:"room"`
	Name    string                 `json:"name"`
	Origin  string                 `json:"origin"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}
