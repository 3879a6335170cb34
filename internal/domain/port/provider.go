package port

import (
	"context"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// PolicyProvider serves the runtime scoring policy. Implementations may
// read feature settings from storage or serve a static snapshot.
type PolicyProvider interface {
	Snapshot(ctx context.Context) (valueobject.PolicyConfig, error)
}

// PartnerRuleConfigProvider serves per-partner check overrides.
type PartnerRuleConfigProvider interface {
	// ConfigFor returns nil when the partner carries no overrides.
	ConfigFor(ctx context.Context, partnerName string) (*model.PartnerRuleConfig, error)
}
