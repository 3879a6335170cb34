package port

import (
	"context"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Collaborator ports (external services consulted while scoring)
// ---------------------------------------------------------------------------

// MLScoringClient fronts the credit-model service.
type MLScoringClient interface {
	// ModelResult returns nil when the model has not produced a result
	// for the application yet.
	ModelResult(ctx context.Context, applicationID int64) (*model.MLModelResult, error)

	// SubmitFDCFeedback reports whether the bureau check passed so the
	// model pipeline can retrain on outcomes.
	SubmitFDCFeedback(ctx context.Context, applicationID int64, passed valueobject.TriState) error
}

// PremiumAreaClient resolves whether the applicant's address falls inside
// a serviceable premium area. Nil means the geocoder has not answered yet.
type PremiumAreaClient interface {
	InsidePremiumArea(ctx context.Context, applicationID int64) (*bool, error)
}

// CLIKClient reports the bureau swap signal for an application.
type CLIKClient interface {
	Signal(ctx context.Context, applicationID int64) (model.CLIKSignal, error)
}

// EligibilityClient is the shape shared by the yes/no interception
// collaborators (waitlist, offline activation, entry level, good referral,
// blacklist, binary-check scoring).
type EligibilityClient interface {
	Eligible(ctx context.Context, applicationID int64) (bool, error)
}

// OverrideSupplier returns a replacement matrix row for partnership
// channels that carry their own scoring table. Nil means the channel does
// not apply to this application.
type OverrideSupplier interface {
	OverrideMatrix(ctx context.Context, applicationID int64) (*model.CreditMatrix, error)
}

// GoodFDCClient covers the good-bureau-history bypass for C-band
// applicants.
type GoodFDCClient interface {
	Eligible(ctx context.Context, applicationID int64) (bool, error)

	// MarkBypassFailed records that an applicant qualified for the bypass
	// but the resolved score was not C, so no bypass was applied.
	MarkBypassFailed(ctx context.Context, applicationID int64) error
}

// FraudModelClient returns the standalone fraud-model probability. Nil
// means no fraud prediction exists for the application.
type FraudModelClient interface {
	FraudProbability(ctx context.Context, applicationID int64) (*float64, error)
}

// Collaborators bundles every external dependency the scoring use case
// consults. Grouped so wiring and test doubles stay in one place.
type Collaborators struct {
	ML          MLScoringClient
	PremiumArea PremiumAreaClient
	CLIK        CLIKClient
	FraudModel  FraudModelClient

	GoodFDC GoodFDCClient

	Waitlist           EligibilityClient
	OfflineActivation  EligibilityClient
	EntryLevel         EligibilityClient
	GoodReferral       EligibilityClient
	Blacklist          EligibilityClient
	BinaryCheckScoring EligibilityClient
	Telco              EligibilityClient

	Shopee    OverrideSupplier
	Tokoscore OverrideSupplier
	Autodebit OverrideSupplier
}
