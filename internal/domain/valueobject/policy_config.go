package valueobject

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// PolicyConfig – feature-flag snapshot
// ---------------------------------------------------------------------------

// FDCThresholdBand configures the FDC inquiry filter for a probability range.
// A band matches when MinProbability <= p < MaxProbability.
type FDCThresholdBand struct {
	MinProbability float64
	MaxProbability float64

	// MaxBadDebtRatio is the ceiling on bad_credit_count / total_credit_count.
	MaxBadDebtRatio decimal.Decimal

	// MaxPaidPctMatured is the ceiling on the paid percentage of matured
	// loans. Exceeding either ceiling confirms the fdc_inquiry_check failure.
	MaxPaidPctMatured decimal.Decimal
}

// Match reports whether p falls inside the band.
func (b FDCThresholdBand) Match(p float64) bool {
	return p >= b.MinProbability && p < b.MaxProbability
}

// FraudProbabilityBand is the fraud-model probability range that forces a
// late downgrade to C.
type FraudProbabilityBand struct {
	Min float64
	Max float64
}

// Match reports whether p falls inside the band.
func (b FraudProbabilityBand) Match(p float64) bool {
	return p >= b.Min && p <= b.Max
}

// PolicyConfig is an immutable snapshot of the feature configuration consumed
// by one scoring run. It is resolved once at invocation time so a single run
// never observes a mixed configuration.
type PolicyConfig struct {
	// CScoreDelay holds back an existing C decision for the given window
	// after creation. Zero disables the window.
	CScoreDelay time.Duration

	// SkipSpecialEvent suppresses the special_event binary check globally.
	SkipSpecialEvent bool

	// GoodPaymentBypass bypasses the fraud-device checks for customers with
	// good payment histories.
	GoodPaymentBypass bool

	// OwnPhoneBypass bypasses the own_phone check (experiment).
	OwnPhoneBypass bool

	// ForceHighScoreEmails lists applicant emails scored at a synthetic
	// probability of 0.98, bypassing the binary-check branch.
	ForceHighScoreEmails []string

	// FDCEnabled activates the FDC inquiry filter; FDCBands holds its
	// threshold table.
	FDCEnabled bool
	FDCBands   []FDCThresholdBand

	// FraudBand is the fraud-model probability range treated as high risk.
	FraudBand FraudProbabilityBand
}

// ForcesHighScore reports whether the given email is on the force-high-score
// allow list. Comparison is case-insensitive.
func (c PolicyConfig) ForcesHighScore(email string) bool {
	if email == "" {
		return false
	}
	for _, allowed := range c.ForceHighScoreEmails {
		if strings.EqualFold(allowed, email) {
			return true
		}
	}
	return false
}

// FDCBandFor returns the threshold band matching p, or nil when none matches.
func (c PolicyConfig) FDCBandFor(p float64) *FDCThresholdBand {
	for i := range c.FDCBands {
		if c.FDCBands[i].Match(p) {
			return &c.FDCBands[i]
		}
	}
	return nil
}
