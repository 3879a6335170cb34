package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// Feature setting names read into the policy snapshot.
const (
	featureCScoreDelay       = "c_score_delay"
	featureSkipSpecialEvent  = "skip_special_event"
	featureGoodPaymentBypass = "good_payment_bypass"
	featureOwnPhoneBypass    = "own_phone_experiment"
	featureForceHighScore    = "force_high_score"
	featureFDCInquiryCheck   = "fdc_inquiry_check"
	featureFraudModelBand    = "fraud_model_band"
)

// PolicyRepo implements port.PolicyProvider over the feature_settings table.
// Snapshot reads every active flag in one query so a scoring run sees a
// consistent configuration.
type PolicyRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPolicyRepo creates a new provider backed by PostgreSQL.
func NewPolicyRepo(pool *pgxpool.Pool, log *slog.Logger) *PolicyRepo {
	return &PolicyRepo{pool: pool, log: log}
}

type cScoreDelayParams struct {
	DelayHours int `json:"delay_hours"`
}

type forceHighScoreParams struct {
	Emails []string `json:"emails"`
}

type fdcBandParams struct {
	Bands []struct {
		MinProbability    float64         `json:"min_probability"`
		MaxProbability    float64         `json:"max_probability"`
		MaxBadDebtRatio   decimal.Decimal `json:"max_bad_debt_ratio"`
		MaxPaidPctMatured decimal.Decimal `json:"max_paid_pct_matured"`
	} `json:"bands"`
}

type fraudBandParams struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Snapshot builds the policy from the active feature settings. A flag with
// unparsable parameters is skipped with a logged warning rather than failing
// the scoring run.
func (r *PolicyRepo) Snapshot(ctx context.Context) (valueobject.PolicyConfig, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT feature_name, parameters
		FROM feature_settings
		WHERE is_active
	`)
	if err != nil {
		return valueobject.PolicyConfig{}, fmt.Errorf("query feature settings: %w", err)
	}
	defer rows.Close()

	var policy valueobject.PolicyConfig
	for rows.Next() {
		var (
			name   string
			params []byte
		)
		if err := rows.Scan(&name, &params); err != nil {
			return valueobject.PolicyConfig{}, fmt.Errorf("scan feature setting: %w", err)
		}
		r.applyFeature(&policy, name, params)
	}
	return policy, rows.Err()
}

func (r *PolicyRepo) applyFeature(policy *valueobject.PolicyConfig, name string, params []byte) {
	switch name {
	case featureCScoreDelay:
		var p cScoreDelayParams
		if r.decode(name, params, &p) {
			policy.CScoreDelay = time.Duration(p.DelayHours) * time.Hour
		}
	case featureSkipSpecialEvent:
		policy.SkipSpecialEvent = true
	case featureGoodPaymentBypass:
		policy.GoodPaymentBypass = true
	case featureOwnPhoneBypass:
		policy.OwnPhoneBypass = true
	case featureForceHighScore:
		var p forceHighScoreParams
		if r.decode(name, params, &p) {
			policy.ForceHighScoreEmails = p.Emails
		}
	case featureFDCInquiryCheck:
		var p fdcBandParams
		if r.decode(name, params, &p) {
			policy.FDCEnabled = true
			for _, b := range p.Bands {
				policy.FDCBands = append(policy.FDCBands, valueobject.FDCThresholdBand{
					MinProbability:    b.MinProbability,
					MaxProbability:    b.MaxProbability,
					MaxBadDebtRatio:   b.MaxBadDebtRatio,
					MaxPaidPctMatured: b.MaxPaidPctMatured,
				})
			}
		}
	case featureFraudModelBand:
		var p fraudBandParams
		if r.decode(name, params, &p) {
			policy.FraudBand = valueobject.FraudProbabilityBand{Min: p.Min, Max: p.Max}
		}
	default:
		r.log.Debug("ignoring unrecognized feature setting", "feature", name)
	}
}

func (r *PolicyRepo) decode(name string, raw []byte, into any) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, into); err != nil {
		r.log.Warn("skipping feature with unparsable parameters",
			"feature", name, "error", err)
		return false
	}
	return true
}

// StaticPolicyProvider serves a fixed policy snapshot. Used in tests and for
// environments without a feature_settings table.
type StaticPolicyProvider struct {
	Policy valueobject.PolicyConfig
}

// Snapshot returns the fixed policy.
func (p *StaticPolicyProvider) Snapshot(context.Context) (valueobject.PolicyConfig, error) {
	return p.Policy, nil
}
