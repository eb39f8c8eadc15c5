package notify

import (
	"context"
	"errors"
	"fmt"

	"videocall-service/internal/auth"
	"videocall-service/internal/upstream"
)

const notificationTypeVideoCall = "video_call"

var ErrInvalidArgument = errors.New("notify: invalid argument")

// Sender is the minimal notification client interface needed by the service.
type Sender interface {
	SendBatch(ctx context.Context, batch []upstream.Notification, bearer string) error
}

// Service fans a "call started" notice out to every group member except the
// actor and submits the whole set as one batch. Failures are surfaced to the
// caller, not retried, and never roll back the call itself.
type Service struct {
	sender Sender
}

func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

// CallStarted notifies group members that actor opened a call room and
// returns the recipient count. An empty recipient list (actor is the only
// member) is a success no-op.
func (s *Service) CallStarted(ctx context.Context, group upstream.Group, groupID string, actor auth.Identity, bearer string) (int, error) {
	if groupID == "" || actor.ID == "" {
		return 0, ErrInvalidArgument
	}
	if s.sender == nil {
		return 0, errors.New("notify: sender not configured")
	}

	batch := BuildCallStartedBatch(group, groupID, actor.ID)
	if len(batch) == 0 {
		return 0, nil
	}
	if err := s.sender.SendBatch(ctx, batch, bearer); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// BuildCallStartedBatch constructs one notification per member, excluding
// the actor.
func BuildCallStartedBatch(group upstream.Group, groupID, actorID string) []upstream.Notification {
	var out []upstream.Notification
	for _, m := range group.Members {
		if m.ID == actorID {
			continue
		}
		out = append(out, upstream.Notification{
			UserID:    m.ID,
			Type:      notificationTypeVideoCall,
			Content:   fmt.Sprintf("A new video call has started in %s", group.Name),
			RelatedID: groupID,
			IsRead:    false,
		})
	}
	return out
}
