package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
	"github.com/julofinance/credit-engine/pkg/events"
	"github.com/julofinance/credit-engine/pkg/postgres"
)

// ScoreDecisionRepo implements port.ScoreDecisionRepository. Decision rows
// and their outbox entries are written in one transaction; uniqueness on
// application_id resolves concurrent creates to the first writer's row.
type ScoreDecisionRepo struct {
	pool *pgxpool.Pool
}

// NewScoreDecisionRepo creates a new repository backed by PostgreSQL.
func NewScoreDecisionRepo(pool *pgxpool.Pool) *ScoreDecisionRepo {
	return &ScoreDecisionRepo{pool: pool}
}

// Create persists the decision and its domain events. On a duplicate
// application_id it returns the already-persisted row.
func (r *ScoreDecisionRepo) Create(ctx context.Context, decision model.ScoreDecision) (model.ScoreDecision, error) {
	err := postgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO score_decisions (
				id, application_id, score, score_tag, product_lines, message,
				credit_matrix_id, credit_matrix_version, model_version,
				fdc_inquiry_check, inside_premium_area, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`
		_, err := tx.Exec(ctx, query,
			decision.ID(), decision.ApplicationID(),
			decision.Score().String(), decision.ScoreTag(),
			toInt64s(decision.ProductLines()), decision.Message(),
			decision.MatrixID(), decision.MatrixVersion(), decision.ModelVersion(),
			decision.FDCInquiryCheck().Bool(), decision.InsidePremiumArea(),
			decision.CreatedAt(),
		)
		if err != nil {
			return err
		}
		return storeOutboxTx(ctx, tx, decision.DomainEvents())
	})
	if err == nil {
		return decision.ClearEvents(), nil
	}
	if !postgres.IsUniqueViolation(err) {
		return model.ScoreDecision{}, fmt.Errorf("insert score decision: %w", err)
	}

	existing, ferr := r.FindByApplicationID(ctx, decision.ApplicationID())
	if ferr != nil {
		return model.ScoreDecision{}, fmt.Errorf("refetch after duplicate: %w", ferr)
	}
	if existing == nil {
		return model.ScoreDecision{}, fmt.Errorf("duplicate decision vanished for application %d", decision.ApplicationID())
	}
	return *existing, nil
}

// FindByApplicationID returns nil when no decision exists.
func (r *ScoreDecisionRepo) FindByApplicationID(ctx context.Context, applicationID int64) (*model.ScoreDecision, error) {
	query := `
		SELECT id, application_id, score, score_tag, product_lines, message,
		       credit_matrix_id, credit_matrix_version, model_version,
		       fdc_inquiry_check, inside_premium_area, created_at
		FROM score_decisions
		WHERE application_id = $1
	`
	decision, err := scanDecision(r.pool.QueryRow(ctx, query, applicationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

// UpdateModelVersion backfills the model version on an existing decision.
func (r *ScoreDecisionRepo) UpdateModelVersion(ctx context.Context, id uuid.UUID, modelVersion string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE score_decisions SET model_version = $2 WHERE id = $1`,
		id, modelVersion,
	)
	if err != nil {
		return fmt.Errorf("update model version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("score decision %s not found", id)
	}
	return nil
}

func scanDecision(s scannable) (model.ScoreDecision, error) {
	var (
		id                 uuid.UUID
		applicationID      int64
		scoreStr, scoreTag string
		productLines       []int64
		message            string
		matrixID           int64
		matrixVersion      int
		modelVersion       string
		fdcInquiryCheck    *bool
		insidePremiumArea  bool
		createdAt          time.Time
	)

	err := s.Scan(
		&id, &applicationID, &scoreStr, &scoreTag, &productLines, &message,
		&matrixID, &matrixVersion, &modelVersion,
		&fdcInquiryCheck, &insidePremiumArea, &createdAt,
	)
	if err != nil {
		return model.ScoreDecision{}, err
	}

	score, err := valueobject.NewScore(scoreStr)
	if err != nil {
		return model.ScoreDecision{}, fmt.Errorf("parse score: %w", err)
	}

	return model.ReconstructScoreDecision(
		id, applicationID, score, scoreTag,
		toInts(productLines), message,
		matrixID, matrixVersion, modelVersion,
		valueobject.TriStateFromBool(fdcInquiryCheck), insidePremiumArea, createdAt,
	), nil
}

// storeOutboxTx writes domain events into the outbox inside the caller's
// transaction.
func storeOutboxTx(ctx context.Context, tx pgx.Tx, evts []events.DomainEvent) error {
	for _, evt := range evts {
		entry := events.NewOutboxEntry(evt)
		_, err := tx.Exec(ctx, `
			INSERT INTO event_outbox (id, aggregate_id, aggregate_type, event_type, payload, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, entry.ID, entry.AggregateID, entry.AggregateType, entry.EventType, entry.Payload, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("store outbox entry %s: %w", entry.EventType, err)
		}
	}
	return nil
}
