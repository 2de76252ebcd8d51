package notification

import (
	"context"
	"log"
	"time"

	authdomain "classlink-backend/internal/auth/domain"
)

// RecipientResolver computes the recipient set for one event.
type RecipientResolver interface {
	ResolveRecipients(event Event) ([]authdomain.User, error)
}

// ReadStateSeeder seeds one unread record per recipient for an event.
type ReadStateSeeder interface {
	Seed(eventID string, userIDs []string) error
}

// Pipeline runs the fan-out for one event: resolve recipients, seed unread
// records, dispatch the push, sanitize dead tokens. Steps for one event are
// strictly sequential; pipelines for different events run concurrently.
//
// A failed dispatch is logged and dropped, never retried. This is a known
// limitation carried over deliberately: the push channel is a convenience,
// recipients can always read the content inside the app.
type Pipeline struct {
	resolver        RecipientResolver
	ledger          ReadStateSeeder
	dispatcher      *Dispatcher
	sanitizer       *Sanitizer
	dispatchTimeout time.Duration
}

func NewPipeline(resolver RecipientResolver, ledger ReadStateSeeder, dispatcher *Dispatcher, sanitizer *Sanitizer, dispatchTimeout time.Duration) *Pipeline {
	if dispatchTimeout <= 0 {
		dispatchTimeout = 10 * time.Second
	}
	return &Pipeline{
		resolver:        resolver,
		ledger:          ledger,
		dispatcher:      dispatcher,
		sanitizer:       sanitizer,
		dispatchTimeout: dispatchTimeout,
	}
}

// Process handles one event end to end. Every failure is logged locally;
// nothing propagates out, so one bad event can never take down the watcher.
func (p *Pipeline) Process(ctx context.Context, event Event) {
	recipients, err := p.resolver.ResolveRecipients(event)
	if err != nil {
		log.Printf("[Pipeline] Event %s: recipient resolution failed: %v", event.ID, err)
		return
	}
	if len(recipients) == 0 {
		log.Printf("[Pipeline] Event %s: no recipients, skipping", event.ID)
		return
	}

	// Seed before dispatch so a recipient can mark the event read as soon as
	// the push lands. A seeding failure does not stop the dispatch.
	recipientIDs := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		recipientIDs = append(recipientIDs, recipient.ID)
	}
	if err := p.ledger.Seed(event.ID, recipientIDs); err != nil {
		log.Printf("[Pipeline] Event %s: read-state seeding failed: %v", event.ID, err)
	}

	// One slow dispatch must not starve the watcher; bound it. A timeout is
	// a dispatch failure with unknown per-token outcome, so no tokens are
	// sanitized from it.
	dispatchCtx, cancel := context.WithTimeout(ctx, p.dispatchTimeout)
	defer cancel()

	outcome, err := p.dispatcher.Dispatch(dispatchCtx, recipients, event)
	if err != nil {
		log.Printf("[Pipeline] Event %s: dispatch failed: %v", event.ID, err)
		return
	}

	p.sanitizer.Sanitize(outcome)
}
