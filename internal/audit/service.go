package audit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only. No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records call lifecycle events.
//
// Callers should treat audit logging as best-effort: a failed append is
// logged and never fails the request that triggered it.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.GroupID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogCallCreated records that an actor opened a call room for a group.
func (s *Service) LogCallCreated(ctx context.Context, groupID, roomID, actorUserID, actorRole string) error {
	return s.Append(ctx, Event{
		GroupID:     groupID,
		RoomID:      roomID,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		Type:        EventTypeCallCreated,
	})
}

// LogCallEnded records that an actor ended the group's active call.
func (s *Service) LogCallEnded(ctx context.Context, groupID, roomID, actorUserID, actorRole string) error {
	return s.Append(ctx, Event{
		GroupID:     groupID,
		RoomID:      roomID,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		Type:        EventTypeCallEnded,
	})
}

// LogNotifySent records a fan-out of call-started notifications.
func (s *Service) LogNotifySent(ctx context.Context, groupID, roomID, actorUserID string, recipients int) error {
	return s.Append(ctx, Event{
		GroupID:     groupID,
		RoomID:      roomID,
		ActorUserID: actorUserID,
		Type:        EventTypeNotifySent,
		Message:     pluralRecipients(recipients),
	})
}

func pluralRecipients(n int) string {
	if n == 1 {
		return "1 recipient"
	}
	return strconv.Itoa(n) + " recipients"
}
