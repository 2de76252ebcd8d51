package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Watcher holds one long-lived subscription per event stream and runs the
// fan-out pipeline for every newly created event. The three streams are
// independent; a failure on one never blocks the others.
type Watcher struct {
	pubsubClient *pubsub.Client
	pipeline     *Pipeline
	topicNames   []string
}

// NewWatcher creates a watcher over the given stream topics.
func NewWatcher(projectID string, topicNames []string, pipeline *Pipeline, credentialsFile string) (*Watcher, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	return &Watcher{
		pubsubClient: client,
		pipeline:     pipeline,
		topicNames:   topicNames,
	}, nil
}

// Start launches one receive loop per stream. The subscriptions are
// long-lived for the process lifetime; cancellation is process termination.
func (w *Watcher) Start(ctx context.Context) {
	for _, topicName := range w.topicNames {
		go w.receive(ctx, topicName)
	}
}

func (w *Watcher) receive(ctx context.Context, topicName string) {
	subName := topicName + "-sub" // Convention: topic-sub

	sub := w.pubsubClient.Subscription(subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[Watcher] Error checking subscription %s: %v", subName, err)
		return
	}

	if !exists {
		topic := w.pubsubClient.Topic(topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[Watcher] Error checking topic %s: %v", topicName, err)
			return
		}
		if !topicExists {
			log.Printf("[Watcher] Topic %s does not exist, cannot create subscription", topicName)
			return
		}

		sub, err = w.pubsubClient.CreateSubscription(ctx, subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[Watcher] Failed to create subscription %s: %v", subName, err)
			return
		}
		log.Printf("[Watcher] Created subscription: %s", subName)
	}

	log.Printf("[Watcher] Listening on subscription: %s", subName)
	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Printf("[Watcher] Dropping malformed event on %s: %v", subName, err)
			msg.Ack()
			return
		}
		msg.Ack()

		// Process off the subscription callback so one event's pipeline
		// cannot block the stream from picking up the next event. The
		// callback context dies with the callback, so the pipeline gets
		// its own.
		go w.process(context.Background(), event)
	})
	if err != nil {
		log.Printf("[Watcher] Receive loop for %s ended: %v", subName, err)
	}
}

func (w *Watcher) process(ctx context.Context, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Watcher] Recovered from panic processing event %s: %v", event.ID, r)
		}
	}()
	w.pipeline.Process(ctx, event)
}
