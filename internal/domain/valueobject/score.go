package valueobject

import (
	"fmt"
)

// ---------------------------------------------------------------------------
// Score – immutable value object
// ---------------------------------------------------------------------------

// Score represents a credit score band.
type Score struct {
	value string
}

const (
	scoreA        = "A"
	scoreAMinus   = "A-"
	scoreBPlus    = "B+"
	scoreBMinus   = "B-"
	scoreC        = "C"
	scoreSentinel = "--"
)

var (
	ScoreA        = Score{value: scoreA}
	ScoreAMinus   = Score{value: scoreAMinus}
	ScoreBPlus    = Score{value: scoreBPlus}
	ScoreBMinus   = Score{value: scoreBMinus}
	ScoreC        = Score{value: scoreC}
	ScoreSentinel = Score{value: scoreSentinel}
)

var validScores = map[string]Score{
	scoreA:        ScoreA,
	scoreAMinus:   ScoreAMinus,
	scoreBPlus:    ScoreBPlus,
	scoreBMinus:   ScoreBMinus,
	scoreC:        ScoreC,
	scoreSentinel: ScoreSentinel,
}

// NewScore creates a Score from a raw string.
func NewScore(s string) (Score, error) {
	v, ok := validScores[s]
	if !ok {
		return Score{}, fmt.Errorf("invalid score band: %q", s)
	}
	return v, nil
}

// String returns the string representation of the score.
func (s Score) String() string { return s.value }

// IsZero returns true if the score has not been initialised.
func (s Score) IsZero() bool { return s.value == "" }

// Equal returns true when both scores carry the same value.
func (s Score) Equal(other Score) bool { return s.value == other.value }

// IsC reports whether the score is the lowest regular band.
func (s Score) IsC() bool { return s.value == scoreC }

// NeedsInterception reports whether the credit-matrix override chain applies
// to this score: the C band and the sentinel placeholder band.
func (s Score) NeedsInterception() bool {
	return s.value == scoreC || s.value == scoreSentinel
}

// ---------------------------------------------------------------------------
// Score tags
// ---------------------------------------------------------------------------

// Score tags attached to a decision alongside the score band.
const (
	TagLowCreditScore     = "low_credit_score"
	TagFailedBinary       = "failed_binary"
	TagFailedDynamicCheck = "failed_dynamic_check"
	TagBlacklisted        = "blacklisted"
	TagHighFraudRisk      = "high_fraud_risk"
	TagCLIKSwapOut        = "clik_swap_out"
)

// goodFDCBypassTags are the score tags on which the good-FDC bypass strategy
// is allowed to replace a C decision.
var goodFDCBypassTags = map[string]struct{}{
	TagLowCreditScore:     {},
	TagFailedDynamicCheck: {},
}

// AllowsGoodFDCBypass reports whether the good-FDC bypass may fire for the
// given score tag.
func AllowsGoodFDCBypass(tag string) bool {
	_, ok := goodFDCBypassTags[tag]
	return ok
}

// AllowsLateInterception reports whether the tail of the override chain
// (Shopee, Tokoscore, autodebit) may run for the given score tag.
func AllowsLateInterception(tag string) bool {
	return tag == TagLowCreditScore || tag == TagFailedDynamicCheck
}
