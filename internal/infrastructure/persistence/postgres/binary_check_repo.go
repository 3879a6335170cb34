package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// BinaryCheckRepo implements port.BinaryCheckRepository over the results
// written by the upstream intake pipeline.
type BinaryCheckRepo struct {
	pool *pgxpool.Pool
}

// NewBinaryCheckRepo creates a new repository backed by PostgreSQL.
func NewBinaryCheckRepo(pool *pgxpool.Pool) *BinaryCheckRepo {
	return &BinaryCheckRepo{pool: pool}
}

// FailedChecks returns the names of the latest failed checks.
func (r *BinaryCheckRepo) FailedChecks(ctx context.Context, applicationID int64) (valueobject.CheckSet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT check_name
		FROM binary_check_results
		WHERE application_id = $1 AND latest AND NOT is_okay
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("query binary checks: %w", err)
	}
	defer rows.Close()

	failed := valueobject.NewCheckSet()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan binary check: %w", err)
		}
		failed.Add(name)
	}
	return failed, rows.Err()
}
