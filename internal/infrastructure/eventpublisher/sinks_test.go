package eventpublisher

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

func TestRedisStreamPublisherAppendsEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	pub := NewRedisStreamPublisher(client, "", 0)
	event := &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "w1",
		AggregateType: domain.AggregateTypeWallet,
		EventType:     domain.EventTypeTransactionApplied,
		Payload:       map[string]any{"amount": "10"},
		CreatedAt:     time.Now(),
	}

	ctx := context.Background()
	if err := pub.Publish(ctx, event); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	msgs, err := client.XRange(ctx, DefaultStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange failed: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(msgs))
	}
	if msgs[0].Values["event_id"] != "evt-1" {
		t.Fatalf("unexpected event id %v", msgs[0].Values["event_id"])
	}
	if msgs[0].Values["payload"] != `{"amount":"10"}` {
		t.Fatalf("unexpected payload %v", msgs[0].Values["payload"])
	}
}

func TestLogPublisherAcceptsEvent(t *testing.T) {
	pub := NewLogPublisher(zerolog.Nop())
	if err := pub.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1", Payload: map[string]any{"a": 1}}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}
