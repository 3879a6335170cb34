package model

// CheckRule is the partner-specific fallback decision applied when a binary
// check is the first failure.
type CheckRule struct {
	Message      string
	Score        string
	ProductLines []int
}

// PartnerRuleConfig maps a partner to the checks it bypasses and the
// per-check fallback rules. Static configuration; never mutated at runtime.
type PartnerRuleConfig struct {
	Partner      string
	BypassChecks []string
	CheckRules   map[string]CheckRule

	// DefaultRule applies when a failed check has no dedicated rule.
	DefaultRule CheckRule
}

// RuleFor returns the fallback rule for the given check.
func (c PartnerRuleConfig) RuleFor(check string) CheckRule {
	if r, ok := c.CheckRules[check]; ok {
		return r
	}
	return c.DefaultRule
}
