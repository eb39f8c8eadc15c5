package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"videocall-service/internal/config"
)

func TestSendBatch_PostsJSON(t *testing.T) {
	var got []Notification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/students/notifications" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %q", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
	}))
	defer srv.Close()

	c := NewNotificationClient(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	batch := []Notification{
		{UserID: "u2", Type: "video_call", Content: "A new video call has started in Study Group", RelatedID: "g1"},
	}
	if err := c.SendBatch(context.Background(), batch, "tok"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u2" || got[0].Type != "video_call" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestSendBatch_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewNotificationClient(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	err := c.SendBatch(context.Background(), nil, "tok")

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}
