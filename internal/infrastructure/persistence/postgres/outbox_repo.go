package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/julofinance/credit-engine/pkg/events"
	"github.com/julofinance/credit-engine/pkg/postgres"
)

// OutboxRepo implements events.OutboxRepository. Writers store entries in
// the same transaction as their state change; the relay drains them.
type OutboxRepo struct {
	pool *pgxpool.Pool
}

// NewOutboxRepo creates a new repository backed by PostgreSQL.
func NewOutboxRepo(pool *pgxpool.Pool) *OutboxRepo {
	return &OutboxRepo{pool: pool}
}

// Store writes entries in their own transaction.
func (r *OutboxRepo) Store(ctx context.Context, entries []events.OutboxEntry) error {
	return postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, entry := range entries {
			_, err := tx.Exec(ctx, `
				INSERT INTO event_outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
				VALUES ($1,$2,$3,$4,$5,$6)
			`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.Payload, entry.CreatedAt)
			if err != nil {
				return fmt.Errorf("store outbox entry: %w", err)
			}
		}
		return nil
	})
}

// FetchUnpublished returns the oldest unpublished entries.
func (r *OutboxRepo) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at
		FROM event_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox entries: %w", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var entry events.OutboxEntry
		err := rows.Scan(
			&entry.ID, &entry.AggregateID, &entry.AggregateType,
			&entry.EventType, &entry.Payload, &entry.CreatedAt, &entry.PublishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// MarkPublished stamps the entries as relayed.
func (r *OutboxRepo) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE event_outbox SET published_at = $2 WHERE id = ANY($1)
	`, ids, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
