package messaging_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/domain/event"
	"github.com/julofinance/credit-engine/internal/infrastructure/messaging"
	"github.com/julofinance/credit-engine/pkg/events"
)

type memoryOutbox struct {
	mu        sync.Mutex
	entries   []events.OutboxEntry
	published map[string]bool
}

func (m *memoryOutbox) Store(_ context.Context, entries []events.OutboxEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memoryOutbox) FetchUnpublished(_ context.Context, batchSize int) ([]events.OutboxEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.OutboxEntry
	for _, e := range m.entries {
		if !m.published[e.ID] {
			out = append(out, e)
			if len(out) == batchSize {
				break
			}
		}
	}
	return out, nil
}

func (m *memoryOutbox) MarkPublished(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.published == nil {
		m.published = map[string]bool{}
	}
	for _, id := range ids {
		m.published[id] = true
	}
	return nil
}

func (m *memoryOutbox) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.entries {
		if !m.published[e.ID] {
			count++
		}
	}
	return count
}

type capturePublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, evts...)
	return nil
}

func (p *capturePublisher) delivered() []events.DomainEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.DomainEvent, len(p.published))
	copy(out, p.published)
	return out
}

func TestOutboxRelay_DrainsAndMarksPublished(t *testing.T) {
	outbox := &memoryOutbox{}
	evt := event.NewCreditScoreCreated("decision-1", 2000000101, "C", "low_credit_score", "v2.1.0")
	entry := events.NewOutboxEntry(evt)
	require.NoError(t, outbox.Store(context.Background(), []events.OutboxEntry{entry}))

	publisher := &capturePublisher{}
	relay := messaging.NewOutboxRelay(
		outbox,
		publisher,
		5*time.Millisecond,
		10,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return len(publisher.delivered()) == 1 && outbox.pendingCount() == 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	delivered := publisher.delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "scoring.credit_score.created", delivered[0].EventType())
	assert.Equal(t, "decision-1", delivered[0].AggregateID())

	// The payload a broker consumer sees is the one captured at store time.
	marshaled, err := json.Marshal(delivered[0])
	require.NoError(t, err)
	assert.JSONEq(t, string(entry.Payload), string(marshaled))
}

func TestOutboxRelay_EmptyOutboxPublishesNothing(t *testing.T) {
	outbox := &memoryOutbox{}
	publisher := &capturePublisher{}
	relay := messaging.NewOutboxRelay(
		outbox,
		publisher,
		5*time.Millisecond,
		10,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	_ = relay.Run(ctx)

	assert.Empty(t, publisher.delivered())
}
