package notify

import (
	"context"
	"errors"
	"testing"

	"videocall-service/internal/auth"
	"videocall-service/internal/upstream"
)

type fakeSender struct {
	batches [][]upstream.Notification
	err     error
}

func (f *fakeSender) SendBatch(_ context.Context, batch []upstream.Notification, _ string) error {
	f.batches = append(f.batches, batch)
	return f.err
}

func testGroup() upstream.Group {
	return upstream.Group{
		Name: "Study Group",
		Members: []upstream.Member{
			{ID: "u1", Name: "Uma"},
			{ID: "u2", Name: "Ben"},
			{ID: "u3", Name: "Cyd"},
		},
	}
}

func TestCallStarted_ExcludesActorAndPostsOneBatch(t *testing.T) {
	sender := &fakeSender{}
	s := NewService(sender)

	n, err := s.CallStarted(context.Background(), testGroup(), "g1", auth.Identity{ID: "u1", Role: "student"}, "tok")
	if err != nil {
		t.Fatalf("call started: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 recipients, got %d", n)
	}
	if len(sender.batches) != 1 {
		t.Fatalf("expected exactly one batch, got %d", len(sender.batches))
	}
	batch := sender.batches[0]
	if len(batch) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(batch))
	}
	for _, msg := range batch {
		if msg.UserID == "u1" {
			t.Fatalf("actor must not be notified: %+v", msg)
		}
		if msg.Type != "video_call" || msg.RelatedID != "g1" || msg.IsRead {
			t.Fatalf("unexpected notification: %+v", msg)
		}
		if msg.Content != "A new video call has started in Study Group" {
			t.Fatalf("unexpected content: %q", msg.Content)
		}
	}
}

func TestCallStarted_ActorOnlyGroupIsNoOp(t *testing.T) {
	sender := &fakeSender{}
	s := NewService(sender)

	g := upstream.Group{Name: "Solo", Members: []upstream.Member{{ID: "u1"}}}
	n, err := s.CallStarted(context.Background(), g, "g1", auth.Identity{ID: "u1"}, "tok")
	if err != nil {
		t.Fatalf("expected no-op success, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 recipients, got %d", n)
	}
	if len(sender.batches) != 0 {
		t.Fatalf("expected no batch, got %d", len(sender.batches))
	}
}

func TestCallStarted_SendFailureSurfaces(t *testing.T) {
	wantErr := errors.New("boom")
	s := NewService(&fakeSender{err: wantErr})

	_, err := s.CallStarted(context.Background(), testGroup(), "g1", auth.Identity{ID: "u1"}, "tok")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected send error to surface, got %v", err)
	}
}

func TestCallStarted_ValidatesArguments(t *testing.T) {
	s := NewService(&fakeSender{})
	if _, err := s.CallStarted(context.Background(), testGroup(), "", auth.Identity{ID: "u1"}, "tok"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := s.CallStarted(context.Background(), testGroup(), "g1", auth.Identity{}, "tok"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
