package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_REGISTERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a generic implementation used by publishers and consumers
// that do not need a dedicated event struct.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Account lifecycle event codes published to the NATS bus.
const (
	TypeUserRegistered     = "USER_REGISTERED"
	TypePasswordResetAsked = "PASSWORD_RESET_REQUESTED"
	TypeSessionDeleted     = "CHAT_SESSION_DELETED"
)

func NewUserRegistered(userId, email string) Event {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewPasswordResetRequested(userId, email string) Event {
	return BaseEvent{
		Type: TypePasswordResetAsked,
		Data: map[string]interface{}{
			"user_id": userId,
			"email":   email,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionDeleted(userId, sessionId string) Event {
	return BaseEvent{
		Type: TypeSessionDeleted,
		Data: map[string]interface{}{
			"user_id":    userId,
			"session_id": sessionId,
		},
		OccurredAt: time.Now(),
	}
}
