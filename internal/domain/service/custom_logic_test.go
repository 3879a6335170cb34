package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/domain/service"
)

func mustParse(t *testing.T, raw string) *service.RuleExpression {
	t.Helper()
	expr, err := service.ParseRuleExpression(raw)
	require.NoError(t, err)
	return expr
}

func TestRuleExpression_BareLiteralMeansEquality(t *testing.T) {
	expr := mustParse(t, "job_industry:banking")

	assert.True(t, expr.Evaluate(map[string]any{"job_industry": "banking"}))
	assert.True(t, expr.Evaluate(map[string]any{"job_industry": "Banking"}))
	assert.False(t, expr.Evaluate(map[string]any{"job_industry": "retail"}))
}

func TestRuleExpression_OperatorInferredFromLiteralPunctuation(t *testing.T) {
	cases := []struct {
		raw    string
		params map[string]any
		want   bool
	}{
		{"repeat_time:>2", map[string]any{"repeat_time": 3}, true},
		{"repeat_time:>2", map[string]any{"repeat_time": 2}, false},
		{"repeat_time:>=2", map[string]any{"repeat_time": 2}, true},
		{"repeat_time:<5", map[string]any{"repeat_time": 4}, true},
		{"repeat_time:<=5", map[string]any{"repeat_time": 6}, false},
		{"repeat_time:!=0", map[string]any{"repeat_time": 1}, true},
		{"repeat_time:<>0", map[string]any{"repeat_time": 0}, false},
		{"repeat_time:=3", map[string]any{"repeat_time": 3}, true},
		{"job_industry:!=banking", map[string]any{"job_industry": "retail"}, true},
	}

	for _, tc := range cases {
		expr := mustParse(t, tc.raw)
		assert.Equal(t, tc.want, expr.Evaluate(tc.params), "expression %q", tc.raw)
	}
}

func TestRuleExpression_Connectors(t *testing.T) {
	params := map[string]any{"job_industry": "banking", "repeat_time": 3}

	assert.True(t, mustParse(t, "job_industry:banking and repeat_time:>=2").Evaluate(params))
	assert.False(t, mustParse(t, "job_industry:retail and repeat_time:>=2").Evaluate(params))
	assert.True(t, mustParse(t, "job_industry:retail or repeat_time:>=2").Evaluate(params))
	assert.False(t, mustParse(t, "job_industry:retail or repeat_time:>9").Evaluate(params))
}

func TestRuleExpression_LeftToRightNoPrecedence(t *testing.T) {
	// (false and false) or true = true under left-to-right evaluation.
	expr := mustParse(t, "a:1 and b:1 or c:1")
	params := map[string]any{"a": 0, "b": 0, "c": 1}
	assert.True(t, expr.Evaluate(params))
}

func TestRuleExpression_MissingFieldIsFalse(t *testing.T) {
	expr := mustParse(t, "job_industry:banking")
	assert.False(t, expr.Evaluate(map[string]any{}))
	assert.False(t, expr.Evaluate(map[string]any{"job_industry": nil}))
}

func TestRuleExpression_OrderedComparisonAgainstStringNeverMatches(t *testing.T) {
	expr := mustParse(t, "job_industry:>2")
	assert.False(t, expr.Evaluate(map[string]any{"job_industry": "banking"}))
}

func TestParseRuleExpression_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "no-colon", ":missing-field", "field:", "field:>"} {
		_, err := service.ParseRuleExpression(raw)
		assert.Error(t, err, "expression %q", raw)
	}
}
