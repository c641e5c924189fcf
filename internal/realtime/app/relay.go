package app

import (
	"context"

	"student_community_service/internal/realtime/domain"
	"student_community_service/internal/realtime/repository"
	"student_community_service/pkg/logger"

	"github.com/google/uuid"
)

// EventRelay delivers an event to every member of a room, best effort.
// Injected into the use cases instead of a module-level shared socket.
type EventRelay interface {
	Emit(room, event string, payload map[string]interface{})
	UserInRoom(room, userID string) bool
}

// Relay composes the local hub with a pub/sub bridge so an event emitted on
// one instance reaches members connected to another. A nil pubsub keeps the
// relay single-instance.
type Relay struct {
	hub    *Hub
	pubsub repository.PubSub
	origin string
}

const relayChannelPrefix = "realtime:"

// NewRelay create Relay
func NewRelay(hub *Hub, pubsub repository.PubSub) *Relay {
	return &Relay{
		hub:    hub,
		pubsub: pubsub,
		origin: uuid.New().String(),
	}
}

// Emit deliver locally and publish for the other instances. Fire-and-forget,
// a publish failure only costs the remote copies.
func (r *Relay) Emit(room, event string, payload map[string]interface{}) {
	r.hub.Emit(room, event, payload)

	if r.pubsub == nil {
		return
	}
	ev := domain.Event{
		Room:    room,
		Name:    event,
		Origin:  r.origin,
		Payload: payload,
	}
	if err := r.pubsub.Publish(relayChannelPrefix+room, ev); err != nil {
		logger.Log.Errorf("relay publish error:", err)
	}
}

// UserInRoom local membership check, see Hub.UserInRoom
func (r *Relay) UserInRoom(room, userID string) bool {
	return r.hub.UserInRoom(room, userID)
}

// Start subscribe the relay channels and re-emit events that originated on
// other instances into the local hub. Runs until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	if r.pubsub == nil {
		return nil
	}
	return r.pubsub.PSubscribe(ctx, relayChannelPrefix+"*", func(ev domain.Event) {
		if ev.Origin == r.origin {
			return
		}
		r.hub.Emit(ev.Room, ev.Name, ev.Payload)
	})
}
