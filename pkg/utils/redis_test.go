package utils

import (
	"context"
	"testing"
	"time"
)

func TestLockReleaseScriptCompiles(t *testing.T) {
	// Compile-time smoke test: script should be initialized.
	if lockReleaseScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}

func TestAcquireLockValidatesArgs(t *testing.T) {
	ctx := context.Background()
	if _, _, err := AcquireLock(ctx, nil, "k", time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestReleaseLockValidatesArgs(t *testing.T) {
	ctx := context.Background()
	if err := ReleaseLock(ctx, nil, "k", "tok"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
