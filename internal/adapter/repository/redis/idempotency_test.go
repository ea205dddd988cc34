package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStore_CheckAndSetClaimsNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)

	exists, existing, err := store.CheckAndSet(context.Background(), "req-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists || existing != nil {
		t.Fatalf("expected new key to be claimed, got exists=%v existing=%q", exists, existing)
	}

	val, err := mr.Get(defaultIdempotencyPrefix + "req-1")
	if err != nil {
		t.Fatalf("expected key in redis: %v", err)
	}
	if val != ProcessingMarker {
		t.Fatalf("expected processing marker, got %q", val)
	}
}

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := store.Update(ctx, "req-1", []byte(`{"status":201}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "req-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected key to exist")
	}
	if string(existing) != `{"status":201}` {
		t.Fatalf("unexpected stored value %q", existing)
	}
}

func TestIdempotencyStore_SecondClaimSeesProcessing(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "req-2", nil, time.Minute); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	exists, existing, err := store.CheckAndSet(ctx, "req-2", nil, time.Minute)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if !exists || string(existing) != ProcessingMarker {
		t.Fatalf("expected in-flight marker, got exists=%v existing=%q", exists, existing)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "req-3", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := store.Release(ctx, "req-3"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if mr.Exists(defaultIdempotencyPrefix + "req-3") {
		t.Fatalf("expected key to be released")
	}
}
