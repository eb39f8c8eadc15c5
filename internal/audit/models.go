package audit

import "time"

// Event is one append-only record of a call lifecycle action.
// Rows are never updated or deleted.
type Event struct {
	ID      string `json:"id" db:"id"`
	GroupID string `json:"group_id" db:"group_id"`
	RoomID  string `json:"room_id,omitempty" db:"room_id"`

	ActorUserID string `json:"actor_user_id" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	Type    EventType `json:"type" db:"type"`
	Message string    `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeCallCreated EventType = "call_created"
	EventTypeCallEnded   EventType = "call_ended"
	EventTypeNotifySent  EventType = "notify_sent"
)
