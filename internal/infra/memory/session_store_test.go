package memory

import (
	"context"
	"testing"
	"time"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Minute)

	if err := store.Put(ctx, "tok-1", "u1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	userID, ok, err := store.Lookup(ctx, "tok-1")
	if err != nil || !ok || userID != "u1" {
		t.Fatalf("expected u1, got %q ok=%v err=%v", userID, ok, err)
	}

	if err := store.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Lookup(ctx, "tok-1"); ok {
		t.Fatalf("expected token removed")
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(time.Minute)
	now := time.Now()
	store.clock = func() time.Time { return now }

	_ = store.Put(ctx, "tok-1", "u1")

	now = now.Add(2 * time.Minute)
	if _, ok, _ := store.Lookup(ctx, "tok-1"); ok {
		t.Fatalf("expected token expired")
	}
}
