package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"caseflow/internal/core/ports"
	"caseflow/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const progressChannel = "caseflow:events:progress"

// EventBus publishes step transitions and user notifications over Redis
// Pub/Sub. Subscribers (UI gateways, push relays) live outside this engine.
type EventBus struct {
	client *redis.Client
}

func NewEventBus(client *redis.Client) *EventBus {
	return &EventBus{client: client}
}

var _ ports.ProgressPublisher = (*EventBus)(nil)
var _ ports.Notifier = (*EventBus)(nil)

func (b *EventBus) PublishProgress(ctx context.Context, ev domain.ProgressEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, progressChannel, payload).Err()
}

func (b *EventBus) Notify(ctx context.Context, orgID uuid.UUID, n domain.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	channel := fmt.Sprintf("caseflow:notify:%s:%s", orgID, n.UserID)
	return b.client.Publish(ctx, channel, payload).Err()
}

// SubscribeToProgress opens a continuous stream of progress events, used by
// operational tooling to tail a run without polling the API.
func (b *EventBus) SubscribeToProgress(ctx context.Context) (<-chan domain.ProgressEvent, error) {
	pubsub := b.client.Subscribe(ctx, progressChannel)

	events := make(chan domain.ProgressEvent)
	go func() {
		defer close(events)
		defer pubsub.Close()
		for {
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			var ev domain.ProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err == nil {
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
