package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// MatrixResolver – versioned score-band lookup with tie-break ordering
// ---------------------------------------------------------------------------

// lowScoreMessage is shown on the hard-coded safety-net decision used when no
// matrix row covers the probability.
const lowScoreMessage = "Unfortunately, your credit score does not meet the minimum requirement for a loan at this time."

// ResolveQuery describes one matrix lookup.
type ResolveQuery struct {
	Probability   float64
	JobType       string
	IsPremiumArea bool
	IsFDC         bool
	MatrixType    string

	// Parameter, when set, restricts the lookup to rows carrying exactly
	// this named parameter (swap-in lookups from the override chain).
	Parameter string

	// CustomParams feeds the rule expressions on parameterized rows.
	CustomParams map[string]any
}

// MatrixResolver selects the best-matching credit-matrix row for a
// probability. Selection order when multiple rows match:
//
//  1. Parameterized rows whose rule expression evaluates true beat plain rows.
//  2. Among ties, highest version wins (unversioned rows order lowest).
//  3. Custom matches then break by priority ascending, max threshold
//     descending; plain matches by max threshold descending only.
//
// When nothing matches, a hard-coded C row is returned with a logged error.
// The fallback never propagates as a nil decision.
type MatrixResolver struct {
	matrices port.CreditMatrixRepository
	log      *slog.Logger
}

// NewMatrixResolver returns a resolver backed by the given repository.
func NewMatrixResolver(matrices port.CreditMatrixRepository, log *slog.Logger) *MatrixResolver {
	return &MatrixResolver{matrices: matrices, log: log}
}

// Resolve returns the best-matching matrix row for the query.
func (r *MatrixResolver) Resolve(ctx context.Context, q ResolveQuery) (model.CreditMatrix, error) {
	matrixType := q.MatrixType
	if matrixType == "" {
		matrixType = model.MatrixTypeJulo1
	}

	candidates, err := r.matrices.FindCandidates(ctx, port.CreditMatrixQuery{
		Probability:   q.Probability,
		IsPremiumArea: q.IsPremiumArea,
		IsSalaried:    valueobject.IsSalariedJobType(q.JobType),
		IsFDC:         q.IsFDC,
		MatrixType:    matrixType,
	})
	if err != nil {
		return model.CreditMatrix{}, fmt.Errorf("find matrix candidates: %w", err)
	}

	if q.Parameter != "" {
		if row, ok := r.pickNamed(candidates, q.Parameter); ok {
			return row, nil
		}
		return r.fallback(q), nil
	}

	if row, ok := r.pickCustom(candidates, q.CustomParams); ok {
		return row, nil
	}
	if row, ok := r.pickPlain(candidates); ok {
		return row, nil
	}
	return r.fallback(q), nil
}

// pickNamed selects among rows carrying exactly the requested named parameter.
func (r *MatrixResolver) pickNamed(candidates []model.CreditMatrix, parameter string) (model.CreditMatrix, bool) {
	rows := make([]model.CreditMatrix, 0, len(candidates))
	for _, c := range candidates {
		if c.Parameter == parameter {
			rows = append(rows, c)
		}
	}
	if len(rows) == 0 {
		return model.CreditMatrix{}, false
	}
	sortCustom(rows)
	return rows[0], true
}

// pickCustom selects among parameterized rows whose rule expression holds for
// the applicant's custom parameters. Rows with named feature parameters and
// rows with unparsable expressions are skipped.
func (r *MatrixResolver) pickCustom(candidates []model.CreditMatrix, params map[string]any) (model.CreditMatrix, bool) {
	rows := make([]model.CreditMatrix, 0, len(candidates))
	for _, c := range candidates {
		if c.Parameter == "" || isNamedParameter(c.Parameter) {
			continue
		}
		expr, err := ParseRuleExpression(c.Parameter)
		if err != nil {
			r.log.Warn("skipping matrix row with unparsable parameter",
				"matrix_id", c.ID, "parameter", c.Parameter, "error", err)
			continue
		}
		if expr.Evaluate(params) {
			rows = append(rows, c)
		}
	}
	if len(rows) == 0 {
		return model.CreditMatrix{}, false
	}
	sortCustom(rows)
	return rows[0], true
}

// pickPlain selects among parameter-less rows.
func (r *MatrixResolver) pickPlain(candidates []model.CreditMatrix) (model.CreditMatrix, bool) {
	rows := make([]model.CreditMatrix, 0, len(candidates))
	for _, c := range candidates {
		if c.Parameter == "" {
			rows = append(rows, c)
		}
	}
	if len(rows) == 0 {
		return model.CreditMatrix{}, false
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Version != rows[j].Version {
			return rows[i].Version > rows[j].Version
		}
		return rows[i].MaxThreshold > rows[j].MaxThreshold
	})
	return rows[0], true
}

// sortCustom orders parameterized matches: version descending, then priority
// ascending, then max threshold descending.
func sortCustom(rows []model.CreditMatrix) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Version != rows[j].Version {
			return rows[i].Version > rows[j].Version
		}
		if rows[i].Priority != rows[j].Priority {
			return rows[i].Priority < rows[j].Priority
		}
		return rows[i].MaxThreshold > rows[j].MaxThreshold
	})
}

func (r *MatrixResolver) fallback(q ResolveQuery) model.CreditMatrix {
	r.log.Error("no credit matrix row matched, using safety-net C score",
		"probability", q.Probability,
		"job_type", q.JobType,
		"matrix_type", q.MatrixType,
		"parameter", q.Parameter)
	return model.CreditMatrix{
		Score:        valueobject.ScoreC,
		ScoreTag:     valueobject.TagLowCreditScore,
		MinThreshold: 0,
		MaxThreshold: 1,
		Message:      lowScoreMessage,
	}
}

// isNamedParameter reports whether the parameter is a named feature selector
// rather than a rule expression.
func isNamedParameter(p string) bool {
	return strings.HasPrefix(p, "feature:")
}
