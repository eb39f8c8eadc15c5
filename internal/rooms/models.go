package rooms

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CallRecord is one row of the append-only call log.
//
// Lifecycle invariant: per group at most one record has Active=true. Records
// are never deleted; End flips Active and stamps EndedAt, nothing else
// mutates a row after insert.
//
// RoomID is the opaque token handed to the media layer. It is generated once
// at creation and never reused.
type CallRecord struct {
	ID        string     `json:"id" db:"id"`
	GroupID   string     `json:"groupId" db:"group_id"`
	RoomID    string     `json:"roomId" db:"room_id"`
	CreatorID string     `json:"creatorId" db:"creator_id"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	EndedAt   *time.Time `json:"endedAt,omitempty" db:"ended_at"`
}

// NewRoomID builds a globally unique room token: room_<groupId>_<32 hex>.
func NewRoomID(groupID string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "room_" + groupID + "_" + hex
}
