package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/julofinance/credit-engine/pkg/events"
)

// storedEvent adapts an already-serialised outbox entry back onto the
// DomainEvent interface so it can travel through an EventPublisher. Its
// JSON form is the payload captured at store time, byte for byte.
type storedEvent struct {
	entry events.OutboxEntry
}

func (e storedEvent) EventID() string       { return e.entry.ID }
func (e storedEvent) EventType() string     { return e.entry.EventType }
func (e storedEvent) AggregateID() string   { return e.entry.AggregateID }
func (e storedEvent) AggregateType() string { return e.entry.AggregateType }
func (e storedEvent) OccurredAt() time.Time { return e.entry.CreatedAt }

func (e storedEvent) MarshalJSON() ([]byte, error) {
	return json.RawMessage(e.entry.Payload).MarshalJSON()
}

// OutboxRelay drains the event outbox into the message broker. State
// changes and their events commit atomically in the writers' transactions;
// the relay makes delivery at-least-once.
type OutboxRelay struct {
	outbox    events.OutboxRepository
	publisher events.EventPublisher

	pollInterval time.Duration
	batchSize    int
	log          *slog.Logger
}

// NewOutboxRelay wires a relay against the outbox and publisher.
func NewOutboxRelay(
	outbox events.OutboxRepository,
	publisher events.EventPublisher,
	pollInterval time.Duration,
	batchSize int,
	log *slog.Logger,
) *OutboxRelay {
	return &OutboxRelay{
		outbox:       outbox,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		log:          log,
	}
}

// Run polls until the context is canceled.
func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.drainOnce(ctx); err != nil {
				r.log.Error("outbox drain failed", "error", err)
			}
		}
	}
}

func (r *OutboxRelay) drainOnce(ctx context.Context) error {
	entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	evts := make([]events.DomainEvent, len(entries))
	ids := make([]string, len(entries))
	for i, entry := range entries {
		evts[i] = storedEvent{entry: entry}
		ids[i] = entry.ID
	}

	if err := r.publisher.Publish(ctx, evts...); err != nil {
		return err
	}
	if err := r.outbox.MarkPublished(ctx, ids); err != nil {
		return err
	}

	r.log.Debug("relayed outbox entries", "count", len(entries))
	return nil
}
