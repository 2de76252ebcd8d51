package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Publisher puts event envelopes onto the per-stream topics the watcher
// subscribes to. Event creators call it after a successful insert.
type Publisher struct {
	pubsubClient *pubsub.Client
	topics       map[EventKind]string
}

// NewPublisher creates a publisher mapping each event kind to its topic.
func NewPublisher(projectID string, topics map[EventKind]string, credentialsFile string) (*Publisher, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Publisher{
		pubsubClient: client,
		topics:       topics,
	}, nil
}

// Publish sends the event to the topic for its kind. A nil publisher drops
// events silently, which is how the service runs with notifications disabled.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.pubsubClient == nil {
		return nil
	}

	topicName, ok := p.topics[event.Kind]
	if !ok {
		return fmt.Errorf("no topic configured for event kind %q", event.Kind)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	result := p.pubsubClient.Topic(topicName).Publish(ctx, &pubsub.Message{Data: data})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	log.Printf("[Publisher] Published %s event %s to %s", event.Kind, event.ID, topicName)
	return nil
}
