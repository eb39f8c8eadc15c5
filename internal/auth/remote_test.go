package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"videocall-service/internal/config"
)

func TestRemoteVerifier_ResolvesProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/profile" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"_id":"u1","name":"Uma","email":"u1@example.com","role":"student"}}`))
	}))
	defer srv.Close()

	v := NewRemoteVerifier(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	id, err := v.Verify(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "u1" || id.Role != "student" || id.Name != "Uma" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestRemoteVerifier_RejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	v := NewRemoteVerifier(config.UpstreamConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	_, err := v.Verify(context.Background(), "bad")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRemoteVerifier_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	v := NewRemoteVerifier(config.UpstreamConfig{BaseURL: srv.URL, Timeout: time.Second})
	_, err := v.Verify(context.Background(), "tok")
	if !errors.Is(err, ErrIdentityUnavailable) {
		t.Fatalf("expected ErrIdentityUnavailable, got %v", err)
	}
}
