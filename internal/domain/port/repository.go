package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CreditMatrixQuery selects candidate rule rows for the resolver. Threshold
// filtering (min <= p < max) happens in the repository; partitioning and
// tie-breaking happen in the resolver.
type CreditMatrixQuery struct {
	Probability   float64
	IsPremiumArea bool
	IsSalaried    bool
	IsFDC         bool
	MatrixType    string
}

// CreditMatrixRepository reads the versioned score-band rule table.
type CreditMatrixRepository interface {
	FindCandidates(ctx context.Context, q CreditMatrixQuery) ([]model.CreditMatrix, error)
}

// ScoreDecisionRepository persists scoring outcomes. At most one decision
// exists per application, enforced by a storage-level uniqueness constraint.
type ScoreDecisionRepository interface {
	// Create persists a decision together with its domain events. On a
	// duplicate-application race it returns the already-persisted row
	// instead of an error.
	Create(ctx context.Context, decision model.ScoreDecision) (model.ScoreDecision, error)

	// FindByApplicationID returns nil when no decision exists yet.
	FindByApplicationID(ctx context.Context, applicationID int64) (*model.ScoreDecision, error)

	// UpdateModelVersion backfills the model version on an existing decision.
	UpdateModelVersion(ctx context.Context, id uuid.UUID, modelVersion string) error
}

// ApplicationRepository reads applicant snapshots.
type ApplicationRepository interface {
	// Snapshot returns nil when the application does not exist.
	Snapshot(ctx context.Context, applicationID int64) (*model.ApplicationSnapshot, error)
}

// BinaryCheckRepository reads the latest failed binary checks for an
// application.
type BinaryCheckRepository interface {
	FailedChecks(ctx context.Context, applicationID int64) (valueobject.CheckSet, error)
}

// FDCRepository reads the applicant's prior-debt bureau data.
type FDCRepository interface {
	// LatestInquiry returns nil when the application has no inquiry.
	LatestInquiry(ctx context.Context, applicationID int64) (*model.FDCInquiry, error)
	LoanSummary(ctx context.Context, customerID int64) (model.FDCLoanSummary, error)
}

// CustomerRepository covers the customer-record reads and the fraud PII
// scrub. Implementations must take a row-level lock on the customer for
// payment-history evaluation and scrubbing so concurrent runs cannot
// interleave with the scrub.
type CustomerRepository interface {
	HasGoodPaymentHistory(ctx context.Context, customerID int64) (bool, error)

	// ScrubFraudPII nulls the customer's email and/or NIK, writes a
	// field-change audit row per scrubbed field, and queues a forced
	// logout when the email is scrubbed.
	ScrubFraudPII(ctx context.Context, customerID, applicationID int64, triggerCheck string) error
}
