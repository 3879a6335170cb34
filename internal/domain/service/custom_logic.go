package service

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// RuleExpression – mini boolean predicate language for parameterized rows
// ---------------------------------------------------------------------------
//
// Grammar (one line, no grouping):
//
//	expr    := term { (" and " | " or ") term }
//	term    := field ":" literal
//
// The comparison operator is inferred from the literal's leading punctuation
// ("<=", ">=", "!=", "<>", "<", ">", "="); a bare literal means equality.
// Connectors evaluate left to right with no precedence. This mirrors the
// historical rule format stored in the matrix table, so stray punctuation in
// a literal changes its meaning; rows are authored accordingly.

type ruleOp int

const (
	opEq ruleOp = iota
	opNe
	opLt
	opLe
	opGt
	opGe
)

type ruleTerm struct {
	field   string
	op      ruleOp
	literal string
}

// RuleExpression is a parsed parameter expression ready for evaluation.
type RuleExpression struct {
	terms      []ruleTerm
	connectors []string // "and" / "or", one between each pair of terms
}

// ParseRuleExpression parses a raw parameter expression.
func ParseRuleExpression(raw string) (*RuleExpression, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty rule expression")
	}

	expr := &RuleExpression{}
	rest := raw
	for {
		andIdx := strings.Index(rest, " and ")
		orIdx := strings.Index(rest, " or ")

		var termRaw, connector string
		switch {
		case andIdx == -1 && orIdx == -1:
			termRaw = rest
		case orIdx == -1 || (andIdx != -1 && andIdx < orIdx):
			termRaw = rest[:andIdx]
			connector = "and"
			rest = rest[andIdx+len(" and "):]
		default:
			termRaw = rest[:orIdx]
			connector = "or"
			rest = rest[orIdx+len(" or "):]
		}

		term, err := parseRuleTerm(termRaw)
		if err != nil {
			return nil, err
		}
		expr.terms = append(expr.terms, term)
		if connector == "" {
			break
		}
		expr.connectors = append(expr.connectors, connector)
	}
	return expr, nil
}

func parseRuleTerm(raw string) (ruleTerm, error) {
	raw = strings.TrimSpace(raw)
	field, literal, ok := strings.Cut(raw, ":")
	if !ok || strings.TrimSpace(field) == "" {
		return ruleTerm{}, fmt.Errorf("malformed rule term %q", raw)
	}
	literal = strings.TrimSpace(literal)

	op := opEq
	switch {
	case strings.HasPrefix(literal, "<="):
		op, literal = opLe, literal[2:]
	case strings.HasPrefix(literal, ">="):
		op, literal = opGe, literal[2:]
	case strings.HasPrefix(literal, "!="), strings.HasPrefix(literal, "<>"):
		op, literal = opNe, literal[2:]
	case strings.HasPrefix(literal, "<"):
		op, literal = opLt, literal[1:]
	case strings.HasPrefix(literal, ">"):
		op, literal = opGt, literal[1:]
	case strings.HasPrefix(literal, "="):
		op, literal = opEq, literal[1:]
	}
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return ruleTerm{}, fmt.Errorf("rule term %q has no literal", raw)
	}
	return ruleTerm{field: strings.TrimSpace(field), op: op, literal: literal}, nil
}

// Evaluate runs the expression against the custom parameter dictionary. A
// term referencing a missing field evaluates false.
func (e *RuleExpression) Evaluate(params map[string]any) bool {
	result := e.terms[0].evaluate(params)
	for i, connector := range e.connectors {
		next := e.terms[i+1].evaluate(params)
		if connector == "and" {
			result = result && next
		} else {
			result = result || next
		}
	}
	return result
}

func (t ruleTerm) evaluate(params map[string]any) bool {
	value, ok := params[t.field]
	if !ok || value == nil {
		return false
	}

	if lhs, numeric := toFloat(value); numeric {
		rhs, err := strconv.ParseFloat(t.literal, 64)
		if err != nil {
			return false
		}
		switch t.op {
		case opEq:
			return lhs == rhs
		case opNe:
			return lhs != rhs
		case opLt:
			return lhs < rhs
		case opLe:
			return lhs <= rhs
		case opGt:
			return lhs > rhs
		case opGe:
			return lhs >= rhs
		}
	}

	lhs := fmt.Sprintf("%v", value)
	switch t.op {
	case opEq:
		return strings.EqualFold(lhs, t.literal)
	case opNe:
		return !strings.EqualFold(lhs, t.literal)
	default:
		// Ordered comparison against a non-numeric value never matches.
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
