package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAppend_FillsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)
	now := time.Unix(1700000000, 0).UTC()
	s.clock = func() time.Time { return now }

	err := s.LogCallCreated(context.Background(), "g1", "room_g1_abc", "u1", "student")
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	events := repo.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !e.CreatedAt.Equal(now) {
		t.Fatalf("expected clock timestamp, got %v", e.CreatedAt)
	}
	if e.Type != EventTypeCallCreated || e.GroupID != "g1" || e.ActorUserID != "u1" {
		t.Fatalf("unexpected event: %+v", e)
	}
}

func TestAppend_RejectsInvalidEvents(t *testing.T) {
	s := NewService(NewMemoryRepo())

	if err := s.Append(context.Background(), Event{Type: EventTypeCallEnded}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent for missing group, got %v", err)
	}
	if err := s.Append(context.Background(), Event{GroupID: "g1"}); !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent for missing type, got %v", err)
	}
}

func TestLogNotifySent_CountsRecipients(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo)

	if err := s.LogNotifySent(context.Background(), "g1", "room_g1_abc", "u1", 3); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.LogNotifySent(context.Background(), "g1", "room_g1_abc", "u1", 1); err != nil {
		t.Fatalf("append: %v", err)
	}

	events := repo.Events()
	if events[0].Message != "3 recipients" || events[1].Message != "1 recipient" {
		t.Fatalf("unexpected messages: %q, %q", events[0].Message, events[1].Message)
	}
}
