package model

import (
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// Credit matrix types.
const (
	MatrixTypeJulo1      = "julo1"
	MatrixTypeEntryLevel = "julo1_entry_level"
)

// Named credit-matrix parameters used by the override chain to request
// specific swap-in rows.
const (
	MatrixParamCLIKSwapIn    = "feature:clik_swap_in"
	MatrixParamGoodFDCBypass = "feature:good_fdc_bypass"
	MatrixParamTelcoSwapIn   = "feature:telco_swap_in"
)

// CreditMatrix is one row of the versioned score-band rule table. Rows are
// plain immutable data loaded by the repository; all policy lives in the
// resolver that selects between them.
type CreditMatrix struct {
	ID           int64
	Version      int // 0 means unversioned, ordered lowest
	Score        valueobject.Score
	ScoreTag     string
	MinThreshold float64
	MaxThreshold float64

	IsPremiumArea bool
	IsSalaried    bool
	IsFDC         bool
	MatrixType    string

	// Parameter is either empty (a plain row), a named parameter constant
	// (a swap-in row selected explicitly by the override chain), or a
	// custom-logic expression evaluated against the applicant's custom
	// parameters.
	Parameter string

	Priority     int
	ProductLines []int
	Message      string
}

// Matches reports whether probability falls inside the row's threshold
// range: min <= p < max.
func (m CreditMatrix) Matches(probability float64) bool {
	return probability >= m.MinThreshold && probability < m.MaxThreshold
}

// WithScore returns a copy of the row carrying a different score band and tag.
// Used by the orchestrator's forced downgrades.
func (m CreditMatrix) WithScore(score valueobject.Score, tag string) CreditMatrix {
	next := m
	next.Score = score
	next.ScoreTag = tag
	return next
}

// WithProductLines returns a copy of the row carrying the given product lines.
func (m CreditMatrix) WithProductLines(lines []int) CreditMatrix {
	next := m
	next.ProductLines = lines
	return next
}
