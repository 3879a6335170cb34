package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/infrastructure/config"
)

const partnerRulesYAML = `
partners:
  - name: tokopedia
    bypass_checks:
      - fraud_email
      - own_phone
    check_rules:
      basic_savings:
        message: Savings below the partner minimum.
        score: B-
        product_lines: [20]
    default_rule:
      message: Application declined by partner policy.
      score: C
`

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partner_rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPartnerRules(t *testing.T) {
	provider, err := config.LoadPartnerRules(writeRules(t, partnerRulesYAML))
	require.NoError(t, err)

	cfg, err := provider.ConfigFor(context.Background(), "tokopedia")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"fraud_email", "own_phone"}, cfg.BypassChecks)

	rule := cfg.RuleFor("basic_savings")
	assert.Equal(t, "B-", rule.Score)
	assert.Equal(t, []int{20}, rule.ProductLines)

	fallback := cfg.RuleFor("monthly_income")
	assert.Equal(t, "C", fallback.Score)
	assert.Equal(t, "Application declined by partner policy.", fallback.Message)
}

func TestLoadPartnerRules_UnknownPartnerIsNil(t *testing.T) {
	provider, err := config.LoadPartnerRules(writeRules(t, partnerRulesYAML))
	require.NoError(t, err)

	cfg, err := provider.ConfigFor(context.Background(), "shopee")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadPartnerRules_MissingName(t *testing.T) {
	_, err := config.LoadPartnerRules(writeRules(t, "partners:\n  - bypass_checks: [own_phone]\n"))
	assert.Error(t, err)
}

func TestLoadPartnerRules_MissingFile(t *testing.T) {
	_, err := config.LoadPartnerRules(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
