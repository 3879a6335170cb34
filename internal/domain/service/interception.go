package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// InterceptionChain – first-match-wins override strategies for C decisions
// ---------------------------------------------------------------------------

// goodReferralMinProbability is the probability floor for the good-referral
// swap-in.
const goodReferralMinProbability = 0.51

// InterceptionContext carries the state one chain run evaluates against.
type InterceptionContext struct {
	ApplicationID int64
	Probability   float64
	JobType       string
	IsPremiumArea bool
	IsFDC         bool
	MatrixType    string
	CustomParams  map[string]any
	HasPartner    bool

	// ScoreTag is the tag on the decision being intercepted.
	ScoreTag string

	// Original is the matrix row the chain replaces when a strategy fires.
	Original model.CreditMatrix
}

// Outcome is a strategy's verdict for one context.
type Outcome int

const (
	// OutcomeSkip means the strategy does not apply; the chain moves on.
	OutcomeSkip Outcome = iota

	// OutcomeOverride means the strategy supplies a replacement row.
	OutcomeOverride

	// OutcomeAbort means a guard tripped; the chain stops and the original
	// row stands.
	OutcomeAbort
)

// Strategy is one link of the interception chain.
type Strategy interface {
	Name() string
	Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error)
}

// InterceptionChain runs its strategies strictly in order and applies at most
// one override per decision cycle.
type InterceptionChain struct {
	strategies []Strategy
	log        *slog.Logger
}

// NewInterceptionChain wires the canonical strategy order against the given
// resolver and collaborators.
func NewInterceptionChain(resolver *MatrixResolver, col port.Collaborators, log *slog.Logger) *InterceptionChain {
	return &InterceptionChain{
		log: log,
		strategies: []Strategy{
			&clikSwapIn{clik: col.CLIK, resolver: resolver},
			&waitlistSwapIn{waitlist: col.Waitlist, resolver: resolver},
			&offlineActivationSwapIn{offline: col.OfflineActivation, resolver: resolver},
			&goodReferralSwapIn{referral: col.GoodReferral, resolver: resolver},
			&entryLevelSwapIn{entryLevel: col.EntryLevel, resolver: resolver},
			&binaryCheckGate{scoring: col.BinaryCheckScoring},
			&goodFDCBypass{goodFDC: col.GoodFDC, resolver: resolver},
			&telcoSwapIn{telco: col.Telco, resolver: resolver},
			&exceptionalCGuard{},
			&supplierOverride{name: "shopee_whitelist", supplier: col.Shopee},
			&supplierOverride{name: "tokoscore", supplier: col.Tokoscore},
			&supplierOverride{name: "autodebit", supplier: col.Autodebit},
		},
	}
}

// Run walks the chain. It returns the effective matrix row and whether a
// strategy replaced the original. Collaborator errors propagate to the
// caller untouched beyond naming the failing strategy.
func (c *InterceptionChain) Run(ctx context.Context, ic InterceptionContext) (model.CreditMatrix, bool, error) {
	for _, s := range c.strategies {
		outcome, row, err := s.Intercept(ctx, ic)
		if err != nil {
			return model.CreditMatrix{}, false, fmt.Errorf("interception %s: %w", s.Name(), err)
		}
		switch outcome {
		case OutcomeOverride:
			c.log.Info("credit matrix intercepted",
				"application_id", ic.ApplicationID,
				"strategy", s.Name(),
				"score", row.Score.String())
			return *row, true, nil
		case OutcomeAbort:
			c.log.Debug("interception chain aborted",
				"application_id", ic.ApplicationID, "strategy", s.Name())
			return ic.Original, false, nil
		}
	}
	return ic.Original, false, nil
}

// resolveWith is the shared swap-in lookup used by most strategies.
func resolveWith(ctx context.Context, resolver *MatrixResolver, ic InterceptionContext, matrixType, parameter string) (*model.CreditMatrix, error) {
	if matrixType == "" {
		matrixType = ic.MatrixType
	}
	row, err := resolver.Resolve(ctx, ResolveQuery{
		Probability:   ic.Probability,
		JobType:       ic.JobType,
		IsPremiumArea: ic.IsPremiumArea,
		IsFDC:         ic.IsFDC,
		MatrixType:    matrixType,
		Parameter:     parameter,
		CustomParams:  ic.CustomParams,
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ---------------------------------------------------------------------------
// Strategies, in chain order
// ---------------------------------------------------------------------------

type clikSwapIn struct {
	clik     port.CLIKClient
	resolver *MatrixResolver
}

func (s *clikSwapIn) Name() string { return "clik_swap_in" }

func (s *clikSwapIn) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	signal, err := s.clik.Signal(ctx, ic.ApplicationID)
	if err != nil {
		return OutcomeSkip, nil, err
	}
	if signal != model.CLIKSignalSwapIn {
		return OutcomeSkip, nil, nil
	}
	row, err := resolveWith(ctx, s.resolver, ic, "", model.MatrixParamCLIKSwapIn)
	return OutcomeOverride, row, err
}

type waitlistSwapIn struct {
	waitlist port.EligibilityClient
	resolver *MatrixResolver
}

func (s *waitlistSwapIn) Name() string { return "waitlist_swap_in" }

func (s *waitlistSwapIn) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	if ic.HasPartner {
		return OutcomeSkip, nil, nil
	}
	eligible, err := s.waitlist.Eligible(ctx, ic.ApplicationID)
	if err != nil || !eligible {
		return OutcomeSkip, nil, err
	}
	row, err := resolveWith(ctx, s.resolver, ic, "", "")
	return OutcomeOverride, row, err
}

type offlineActivationSwapIn struct {
	offline  port.EligibilityClient
	resolver *MatrixResolver
}

func (s *offlineActivationSwapIn) Name() string { return "offline_activation" }

func (s *offlineActivationSwapIn) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	eligible, err := s.offline.Eligible(ctx, ic.ApplicationID)
	if err != nil || !eligible {
		return OutcomeSkip, nil, err
	}
	// A dynamic-check failure gets the plain lookup; everything else the
	// good-FDC-bypass parameterized one.
	parameter := model.MatrixParamGoodFDCBypass
	if ic.ScoreTag == valueobject.TagFailedDynamicCheck {
		parameter = ""
	}
	row, err := resolveWith(ctx, s.resolver, ic, "", parameter)
	return OutcomeOverride, row, err
}

type goodReferralSwapIn struct {
	referral port.EligibilityClient
	resolver *MatrixResolver
}

func (s *goodReferralSwapIn) Name() string { return "good_referral" }

func (s *goodReferralSwapIn) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	if ic.Probability < goodReferralMinProbability {
		return OutcomeSkip, nil, nil
	}
	eligible, err := s.referral.Eligible(ctx, ic.ApplicationID)
	if err != nil || !eligible {
		return OutcomeSkip, nil, err
	}
	row, err := resolveWith(ctx, s.resolver, ic, "", "")
	return OutcomeOverride, row, err
}

type entryLevelSwapIn struct {
	entryLevel port.EligibilityClient
	resolver   *MatrixResolver
}

func (s *entryLevelSwapIn) Name() string { return "entry_level_swap_in" }

func (s *entryLevelSwapIn) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	eligible, err := s.entryLevel.Eligible(ctx, ic.ApplicationID)
	if err != nil || !eligible {
		return OutcomeSkip, nil, err
	}
	row, err := resolveWith(ctx, s.resolver, ic, model.MatrixTypeEntryLevel, "")
	return OutcomeOverride, row, err
}

// binaryCheckGate aborts the chain when the re-validation collaborator does
// not pass the application.
type binaryCheckGate struct {
	scoring port.EligibilityClient
}

func (s *binaryCheckGate) Name() string { return "binary_check_gate" }

func (s *binaryCheckGate) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	passes, err := s.scoring.Eligible(ctx, ic.ApplicationID)
	if err != nil {
		return OutcomeSkip, nil, err
	}
	if !passes {
		return OutcomeAbort, nil, nil
	}
	return OutcomeSkip, nil, nil
}

type goodFDCBypass struct {
	goodFDC  port.GoodFDCClient
	resolver *MatrixResolver
}

func (s *goodFDCBypass) Name() string { return "good_fdc_bypass" }

func (s *goodFDCBypass) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	if !valueobject.AllowsGoodFDCBypass(ic.ScoreTag) {
		return OutcomeSkip, nil, nil
	}
	eligible, err := s.goodFDC.Eligible(ctx, ic.ApplicationID)
	if err != nil || !eligible {
		return OutcomeSkip, nil, err
	}
	row, err := resolveWith(ctx, s.resolver, ic, "", model.MatrixParamGoodFDCBypass)
	return OutcomeOverride, row, err
}

type telcoSwapIn struct {
	telco    port.EligibilityClient
	resolver *MatrixResolver
}

func (s *telcoSwapIn) Name() string { return "telco_swap_in" }

func (s *telcoSwapIn) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	eligible, err := s.telco.Eligible(ctx, ic.ApplicationID)
	if err != nil || !eligible {
		return OutcomeSkip, nil, err
	}
	row, err := resolveWith(ctx, s.resolver, ic, "", "")
	return OutcomeOverride, row, err
}

// exceptionalCGuard stops the tail collaborators unless the C decision came
// from a low score or a dynamic-check failure.
type exceptionalCGuard struct{}

func (s *exceptionalCGuard) Name() string { return "exceptional_c_guard" }

func (s *exceptionalCGuard) Intercept(_ context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	if !valueobject.AllowsLateInterception(ic.ScoreTag) {
		return OutcomeAbort, nil, nil
	}
	return OutcomeSkip, nil, nil
}

// supplierOverride wraps the tail collaborators that hand back a complete
// replacement row themselves.
type supplierOverride struct {
	name     string
	supplier port.OverrideSupplier
}

func (s *supplierOverride) Name() string { return s.name }

func (s *supplierOverride) Intercept(ctx context.Context, ic InterceptionContext) (Outcome, *model.CreditMatrix, error) {
	row, err := s.supplier.OverrideMatrix(ctx, ic.ApplicationID)
	if err != nil || row == nil {
		return OutcomeSkip, nil, err
	}
	return OutcomeOverride, row, nil
}
