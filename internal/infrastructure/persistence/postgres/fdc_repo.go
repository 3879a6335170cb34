package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/julofinance/credit-engine/internal/domain/model"
)

// FDCRepo implements port.FDCRepository over the bureau inquiry and loan
// tables synced from the FDC gateway.
type FDCRepo struct {
	pool *pgxpool.Pool
}

// NewFDCRepo creates a new repository backed by PostgreSQL.
func NewFDCRepo(pool *pgxpool.Pool) *FDCRepo {
	return &FDCRepo{pool: pool}
}

// LatestInquiry returns the most recent inquiry for the application, or nil.
func (r *FDCRepo) LatestInquiry(ctx context.Context, applicationID int64) (*model.FDCInquiry, error) {
	var inquiry model.FDCInquiry
	err := r.pool.QueryRow(ctx, `
		SELECT application_id, status, inquiry_date
		FROM fdc_inquiries
		WHERE application_id = $1
		ORDER BY inquiry_date DESC
		LIMIT 1
	`, applicationID).Scan(&inquiry.ApplicationID, &inquiry.Status, &inquiry.InquiryDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query fdc inquiry: %w", err)
	}
	return &inquiry, nil
}

// LoanSummary aggregates the customer's bureau loans by days-past-due tier.
func (r *FDCRepo) LoanSummary(ctx context.Context, customerID int64) (model.FDCLoanSummary, error) {
	var (
		summary     model.FDCLoanSummary
		outstanding decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE days_past_due = 0),
			COUNT(*) FILTER (WHERE days_past_due BETWEEN 1 AND 30),
			COUNT(*) FILTER (WHERE days_past_due BETWEEN 31 AND 60),
			COUNT(*) FILTER (WHERE days_past_due BETWEEN 61 AND 90),
			COUNT(*) FILTER (WHERE days_past_due > 90),
			COALESCE(SUM(outstanding_amount), 0),
			COUNT(*) FILTER (WHERE is_matured),
			COUNT(*) FILTER (WHERE is_matured AND is_paid)
		FROM fdc_loans
		WHERE customer_id = $1
	`, customerID).Scan(
		&summary.TierCounts[model.DPDTierCurrent],
		&summary.TierCounts[model.DPDTier1To30],
		&summary.TierCounts[model.DPDTier31To60],
		&summary.TierCounts[model.DPDTier61To90],
		&summary.TierCounts[model.DPDTierOver90],
		&outstanding,
		&summary.MaturedCount,
		&summary.PaidMaturedCount,
	)
	if err != nil {
		return model.FDCLoanSummary{}, fmt.Errorf("query fdc loan summary: %w", err)
	}
	summary.TotalOutstanding = outstanding
	return summary, nil
}
