package service

import (
	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// FDCFilter – threshold-driven fdc_inquiry_check suppression
// ---------------------------------------------------------------------------

// FDCFilter decides whether the fdc_inquiry_check binary failure stands, based
// on the model probability and the applicant's aggregated bureau loans.
type FDCFilter struct{}

// NewFDCFilter returns a new filter instance.
func NewFDCFilter() *FDCFilter {
	return &FDCFilter{}
}

// Apply evaluates the filter and adjusts the failed-check set in place.
//
// Without an active configuration or a successful inquiry the failed set is
// left untouched and the tri-state stays unknown. When the probability falls
// outside every configured band the check is treated as passed. Inside a
// band, exceeding either the bad-debt-ratio ceiling or the
// paid-percentage-of-matured ceiling confirms the failure; otherwise the
// check is removed and treated as passed.
func (f *FDCFilter) Apply(
	policy valueobject.PolicyConfig,
	probability float64,
	inquiry *model.FDCInquiry,
	summary model.FDCLoanSummary,
	failed valueobject.CheckSet,
) valueobject.TriState {
	if !policy.FDCEnabled || len(policy.FDCBands) == 0 {
		return valueobject.TriStateUnknown
	}
	if inquiry == nil || !inquiry.Successful() {
		return valueobject.TriStateUnknown
	}

	band := policy.FDCBandFor(probability)
	if band == nil {
		failed.Remove(valueobject.CheckFDCInquiry)
		return valueobject.TriStatePassed
	}

	if summary.BadDebtRatio().GreaterThan(band.MaxBadDebtRatio) ||
		summary.PaidPctMatured().GreaterThan(band.MaxPaidPctMatured) {
		return valueobject.TriStateFailed
	}

	failed.Remove(valueobject.CheckFDCInquiry)
	return valueobject.TriStatePassed
}
