package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/julofinance/credit-engine/internal/domain/model"
)

// partnerRuleFile is the YAML shape of the partner rule configuration.
type partnerRuleFile struct {
	Partners []partnerEntry `yaml:"partners"`
}

type partnerEntry struct {
	Name         string               `yaml:"name"`
	BypassChecks []string             `yaml:"bypass_checks"`
	CheckRules   map[string]ruleEntry `yaml:"check_rules"`
	DefaultRule  ruleEntry            `yaml:"default_rule"`
}

type ruleEntry struct {
	Message      string `yaml:"message"`
	Score        string `yaml:"score"`
	ProductLines []int  `yaml:"product_lines"`
}

// PartnerRuleProvider serves per-partner check overrides from a YAML file
// loaded once at startup. Implements port.PartnerRuleConfigProvider.
type PartnerRuleProvider struct {
	configs map[string]*model.PartnerRuleConfig
}

// LoadPartnerRules parses the partner rule file at path.
func LoadPartnerRules(path string) (*PartnerRuleProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read partner rules: %w", err)
	}

	var file partnerRuleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse partner rules: %w", err)
	}

	configs := make(map[string]*model.PartnerRuleConfig, len(file.Partners))
	for _, p := range file.Partners {
		if p.Name == "" {
			return nil, fmt.Errorf("partner rule entry without a name")
		}
		cfg := &model.PartnerRuleConfig{
			Partner:      p.Name,
			BypassChecks: p.BypassChecks,
			CheckRules:   make(map[string]model.CheckRule, len(p.CheckRules)),
			DefaultRule:  toCheckRule(p.DefaultRule),
		}
		for check, rule := range p.CheckRules {
			cfg.CheckRules[check] = toCheckRule(rule)
		}
		configs[p.Name] = cfg
	}
	return &PartnerRuleProvider{configs: configs}, nil
}

// EmptyPartnerRules returns a provider with no partner overrides.
func EmptyPartnerRules() *PartnerRuleProvider {
	return &PartnerRuleProvider{configs: map[string]*model.PartnerRuleConfig{}}
}

// ConfigFor returns the partner's config, or nil when none is registered.
func (p *PartnerRuleProvider) ConfigFor(_ context.Context, partner string) (*model.PartnerRuleConfig, error) {
	return p.configs[partner], nil
}

func toCheckRule(r ruleEntry) model.CheckRule {
	return model.CheckRule{
		Message:      r.Message,
		Score:        r.Score,
		ProductLines: r.ProductLines,
	}
}
