package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/julofinance/credit-engine/internal/domain/model"
)

// ApplicationRepo implements port.ApplicationRepository as a read-only
// projection of the intake pipeline's application records.
type ApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewApplicationRepo creates a new repository backed by PostgreSQL.
func NewApplicationRepo(pool *pgxpool.Pool) *ApplicationRepo {
	return &ApplicationRepo{pool: pool}
}

// Snapshot returns the applicant attributes the engine reads, or nil when
// the application does not exist.
func (r *ApplicationRepo) Snapshot(ctx context.Context, applicationID int64) (*model.ApplicationSnapshot, error) {
	var (
		snap        model.ApplicationSnapshot
		email       *string
		nik         *string
		jobType     *string
		jobIndustry *string
		partnerName *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT application_id, customer_id, email, nik, job_type, job_industry,
		       partner_name, repeat_time
		FROM applications
		WHERE application_id = $1
	`, applicationID).Scan(
		&snap.ID, &snap.CustomerID, &email, &nik, &jobType, &jobIndustry,
		&partnerName, &snap.RepeatTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query application: %w", err)
	}

	if email != nil {
		snap.Email = *email
	}
	if nik != nil {
		snap.NIK = *nik
	}
	if jobType != nil {
		snap.JobType = *jobType
	}
	if jobIndustry != nil {
		snap.JobIndustry = *jobIndustry
	}
	if partnerName != nil {
		snap.PartnerName = *partnerName
	}
	return &snap, nil
}
