package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// EventPublisher pushes notification events onto the message bus for the
// external delivery channels (push, email). Best-effort only.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// TopicPublisher adapts a Pub/Sub publisher to EventPublisher.
type TopicPublisher struct {
	topic *pubsub.Publisher
}

func NewTopicPublisher(topic *pubsub.Publisher) (*TopicPublisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("notification topic required")
	}
	return &TopicPublisher{topic: topic}, nil
}

func (p *TopicPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_type": eventType,
		},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}
