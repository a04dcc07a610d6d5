package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
	"github.com/emilianovazquez/pedilo-backend/pkg/redis"
)

// Event is one order-feed notification pushed to a store's admin view.
type Event struct {
	OrderID   uuid.UUID `json:"order_id"`
	StoreID   uuid.UUID `json:"store_id"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Feed event kinds.
const (
	EventKindCreated       = "order_created"
	EventKindStatusChanged = "order_status_changed"
)

// Feed is the change-feed abstraction between order writes and the admin
// list. Publishers fire and forget; subscribers re-fetch on every event.
type Feed interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, storeID uuid.UUID) (Subscription, error)
}

// Subscription is one live listener on a store's order events.
type Subscription interface {
	Events() <-chan Event
	Close() error
}

// RedisFeed carries order events over one pub/sub channel per store.
type RedisFeed struct {
	client *redis.Client
	logg   *logger.Logger
}

// NewRedisFeed builds the Redis-backed order feed.
func NewRedisFeed(client *redis.Client, logg *logger.Logger) (*RedisFeed, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &RedisFeed{client: client, logg: logg}, nil
}

// Publish pushes one event to the store's channel.
func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal feed event: %w", err)
	}
	return f.client.Publish(ctx, f.client.OrderFeedChannel(event.StoreID.String()), payload)
}

// Subscribe opens a live listener on the store's channel. The subscription
// goroutine exits when Close is called or the context ends.
func (f *RedisFeed) Subscribe(ctx context.Context, storeID uuid.UUID) (Subscription, error) {
	pubsub, err := f.client.Subscribe(ctx, f.client.OrderFeedChannel(storeID.String()))
	if err != nil {
		return nil, fmt.Errorf("subscribe order feed: %w", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		events: make(chan Event, 8),
	}
	go sub.pump(ctx, f.logg)
	return sub, nil
}

type redisSubscription struct {
	pubsub *goredis.PubSub
	events chan Event
}

func (s *redisSubscription) Events() <-chan Event {
	return s.events
}

func (s *redisSubscription) Close() error {
	return s.pubsub.Close()
}

func (s *redisSubscription) pump(ctx context.Context, logg *logger.Logger) {
	defer close(s.events)

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = s.pubsub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logg.Warn(ctx, fmt.Sprintf("dropping malformed feed event: %v", err))
				continue
			}
			select {
			case s.events <- event:
			case <-ctx.Done():
				_ = s.pubsub.Close()
				return
			}
		}
	}
}
