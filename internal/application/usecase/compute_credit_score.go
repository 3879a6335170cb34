package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/julofinance/credit-engine/internal/application/dto"
	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
	"github.com/julofinance/credit-engine/internal/domain/service"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// forceHighScoreProbability is the synthetic probability resolved for
// applicants on the force-high-score allow list.
const forceHighScoreProbability = 0.98

// binaryFailMessage is shown when a binary check fails and no partner rule
// supplies its own text.
const binaryFailMessage = "Unfortunately, your application did not pass our initial screening."

// ComputeCreditScoreUseCase runs the full scoring pipeline for one
// application: binary-check evaluation, FDC filtering, matrix resolution,
// post-hoc downgrades, the interception chain, and idempotent persistence.
//
// A nil response with a nil error means the application is not yet
// scoreable (missing model result or premium-area determination, or an
// existing C decision still inside its delay window). Callers retry later.
type ComputeCreditScoreUseCase struct {
	decisions     port.ScoreDecisionRepository
	applications  port.ApplicationRepository
	binaryChecks  port.BinaryCheckRepository
	customers     port.CustomerRepository
	fdc           port.FDCRepository
	partnerRules  port.PartnerRuleConfigProvider
	policy        port.PolicyProvider
	collaborators port.Collaborators

	evaluator *service.BinaryCheckEvaluator
	fdcFilter *service.FDCFilter
	resolver  *service.MatrixResolver
	chain     *service.InterceptionChain

	log *slog.Logger
	now func() time.Time
}

// NewComputeCreditScoreUseCase wires dependencies.
func NewComputeCreditScoreUseCase(
	decisions port.ScoreDecisionRepository,
	applications port.ApplicationRepository,
	binaryChecks port.BinaryCheckRepository,
	customers port.CustomerRepository,
	fdc port.FDCRepository,
	partnerRules port.PartnerRuleConfigProvider,
	policy port.PolicyProvider,
	collaborators port.Collaborators,
	resolver *service.MatrixResolver,
	chain *service.InterceptionChain,
	log *slog.Logger,
) *ComputeCreditScoreUseCase {
	return &ComputeCreditScoreUseCase{
		decisions:     decisions,
		applications:  applications,
		binaryChecks:  binaryChecks,
		customers:     customers,
		fdc:           fdc,
		partnerRules:  partnerRules,
		policy:        policy,
		collaborators: collaborators,
		evaluator:     service.NewBinaryCheckEvaluator(),
		fdcFilter:     service.NewFDCFilter(),
		resolver:      resolver,
		chain:         chain,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case's clock. Test hook.
func (uc *ComputeCreditScoreUseCase) WithClock(now func() time.Time) *ComputeCreditScoreUseCase {
	uc.now = now
	return uc
}

// Execute scores the application, or returns the persisted decision when one
// already exists.
func (uc *ComputeCreditScoreUseCase) Execute(
	ctx context.Context,
	req dto.ComputeCreditScoreRequest,
) (*dto.CreditScoreResponse, error) {
	// The policy is snapshotted once so a single run never observes a
	// mixed configuration.
	policy, err := uc.policy.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	// 1. Already scored: honor the C-score delay window, backfill the
	// model version, and return the existing row.
	existing, err := uc.decisions.FindByApplicationID(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("find existing decision: %w", err)
	}
	if existing != nil {
		return uc.returnExisting(ctx, req, policy, *existing)
	}

	// 2. Prerequisites: application snapshot, model result, premium area.
	app, err := uc.applications.Snapshot(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return nil, nil
	}

	mlResult, err := uc.collaborators.ML.ModelResult(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("fetch model result: %w", err)
	}
	if mlResult == nil {
		return nil, nil
	}
	probability, ok := mlResult.Probability()
	if !ok {
		return nil, nil
	}

	premiumArea, err := uc.collaborators.PremiumArea.InsidePremiumArea(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("resolve premium area: %w", err)
	}
	if premiumArea == nil {
		return nil, nil
	}

	// 3. Binary checks and the FDC filter.
	failed, partnerCfg, err := uc.effectiveFailures(ctx, policy, *app)
	if err != nil {
		return nil, err
	}

	fdcState, err := uc.applyFDCFilter(ctx, policy, probability, *app, failed)
	if err != nil {
		return nil, err
	}

	firstFailed := uc.evaluator.FirstFailedCheck(failed, policy.SkipSpecialEvent)
	if service.RequiresPIIScrub(firstFailed) {
		if err := uc.customers.ScrubFraudPII(ctx, app.CustomerID, app.ID, firstFailed); err != nil {
			return nil, fmt.Errorf("scrub customer pii: %w", err)
		}
	}

	// 4. Resolve the matrix row.
	forceHigh := policy.ForcesHighScore(app.Email)
	matrix, err := uc.resolveMatrix(ctx, *app, *mlResult, probability, *premiumArea, forceHigh, firstFailed, partnerCfg)
	if err != nil {
		return nil, err
	}

	// 5. Post-hoc overrides, in order.
	matrix = augmentAMinusProductLines(matrix)

	if failed.Contains(valueobject.CheckDynamic) && !matrix.Score.IsC() && !forceHigh {
		matrix = matrix.WithScore(valueobject.ScoreC, valueobject.TagFailedDynamicCheck)
	}

	clikSignal, err := uc.collaborators.CLIK.Signal(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("fetch clik signal: %w", err)
	}
	if clikSignal == model.CLIKSignalSwapOut {
		matrix = matrix.WithScore(valueobject.ScoreC, valueobject.TagCLIKSwapOut)
	}

	// 6. Interception chain for C decisions; secondary fraud checks for
	// everything else, which may still downgrade and re-enter the chain.
	ic := service.InterceptionContext{
		ApplicationID: app.ID,
		Probability:   probability,
		JobType:       app.JobType,
		IsPremiumArea: *premiumArea,
		IsFDC:         mlResult.HasFDC,
		MatrixType:    mlResult.MatrixType(),
		CustomParams:  app.CustomParams(),
		HasPartner:    app.HasPartner(),
	}

	if matrix.Score.NeedsInterception() {
		matrix, err = uc.runChain(ctx, ic, matrix)
		if err != nil {
			return nil, err
		}
	} else {
		matrix, err = uc.applySecondaryChecks(ctx, policy, ic, matrix)
		if err != nil {
			return nil, err
		}
	}

	// 7. Persist exactly one decision; a concurrent create resolves to the
	// already-persisted row.
	decision := model.NewScoreDecision(
		app.ID, matrix, mlResult.ModelVersion, fdcState, *premiumArea, uc.now(),
	)
	persisted, err := uc.decisions.Create(ctx, decision)
	if err != nil {
		return nil, fmt.Errorf("persist decision: %w", err)
	}

	uc.log.Info("credit score computed",
		"application_id", app.ID,
		"score", persisted.Score().String(),
		"score_tag", persisted.ScoreTag(),
		"matrix_id", persisted.MatrixID())

	resp := toCreditScoreResponse(persisted)
	return &resp, nil
}

// returnExisting handles the already-scored short circuit.
func (uc *ComputeCreditScoreUseCase) returnExisting(
	ctx context.Context,
	req dto.ComputeCreditScoreRequest,
	policy valueobject.PolicyConfig,
	existing model.ScoreDecision,
) (*dto.CreditScoreResponse, error) {
	if existing.Score().IsC() && policy.CScoreDelay > 0 && !req.SkipDelayChecking {
		if uc.now().Before(existing.CreatedAt().Add(policy.CScoreDelay)) {
			return nil, nil
		}
	}

	if existing.ModelVersion() == "" {
		mlResult, err := uc.collaborators.ML.ModelResult(ctx, req.ApplicationID)
		if err != nil {
			return nil, fmt.Errorf("fetch model result: %w", err)
		}
		if mlResult != nil && mlResult.ModelVersion != "" {
			if err := uc.decisions.UpdateModelVersion(ctx, existing.ID(), mlResult.ModelVersion); err != nil {
				return nil, fmt.Errorf("backfill model version: %w", err)
			}
			existing = existing.WithModelVersion(mlResult.ModelVersion)
		}
	}

	resp := toCreditScoreResponse(existing)
	return &resp, nil
}

// effectiveFailures loads the failed checks and strips every applicable
// bypass: the partner list, the good-payment fraud-device bypass, and the
// own-phone experiment.
func (uc *ComputeCreditScoreUseCase) effectiveFailures(
	ctx context.Context,
	policy valueobject.PolicyConfig,
	app model.ApplicationSnapshot,
) (valueobject.CheckSet, *model.PartnerRuleConfig, error) {
	failedRaw, err := uc.binaryChecks.FailedChecks(ctx, app.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("load binary checks: %w", err)
	}

	var partnerCfg *model.PartnerRuleConfig
	bypass := valueobject.NewCheckSet()
	if app.HasPartner() {
		partnerCfg, err = uc.partnerRules.ConfigFor(ctx, app.PartnerName)
		if err != nil {
			return nil, nil, fmt.Errorf("load partner rules: %w", err)
		}
		if partnerCfg != nil {
			bypass = valueobject.NewCheckSet(partnerCfg.BypassChecks...)
		}
	}

	bypassFraudDevice := false
	if policy.GoodPaymentBypass {
		bypassFraudDevice, err = uc.customers.HasGoodPaymentHistory(ctx, app.CustomerID)
		if err != nil {
			return nil, nil, fmt.Errorf("check payment history: %w", err)
		}
	}

	failed := uc.evaluator.EffectiveFailures(service.BinaryCheckInput{
		FailedChecks:      failedRaw,
		BypassChecks:      bypass,
		BypassFraudDevice: bypassFraudDevice,
		BypassOwnPhone:    policy.OwnPhoneBypass,
	})
	return failed, partnerCfg, nil
}

// applyFDCFilter runs the FDC threshold filter and reports the verdict back
// to the model pipeline when one was reached.
func (uc *ComputeCreditScoreUseCase) applyFDCFilter(
	ctx context.Context,
	policy valueobject.PolicyConfig,
	probability float64,
	app model.ApplicationSnapshot,
	failed valueobject.CheckSet,
) (valueobject.TriState, error) {
	inquiry, err := uc.fdc.LatestInquiry(ctx, app.ID)
	if err != nil {
		return valueobject.TriStateUnknown, fmt.Errorf("load fdc inquiry: %w", err)
	}

	var summary model.FDCLoanSummary
	if inquiry != nil && inquiry.Successful() {
		summary, err = uc.fdc.LoanSummary(ctx, app.CustomerID)
		if err != nil {
			return valueobject.TriStateUnknown, fmt.Errorf("load fdc loan summary: %w", err)
		}
	}

	state := uc.fdcFilter.Apply(policy, probability, inquiry, summary, failed)
	if state != valueobject.TriStateUnknown {
		if err := uc.collaborators.ML.SubmitFDCFeedback(ctx, app.ID, state); err != nil {
			return valueobject.TriStateUnknown, fmt.Errorf("submit fdc feedback: %w", err)
		}
	}
	return state, nil
}

// resolveMatrix picks the matrix row for the run: the force-high-score path,
// the failed-binary partner rule path, or the regular probability lookup.
func (uc *ComputeCreditScoreUseCase) resolveMatrix(
	ctx context.Context,
	app model.ApplicationSnapshot,
	mlResult model.MLModelResult,
	probability float64,
	premiumArea bool,
	forceHigh bool,
	firstFailed string,
	partnerCfg *model.PartnerRuleConfig,
) (model.CreditMatrix, error) {
	if forceHigh {
		uc.log.Info("force high score applied",
			"application_id", app.ID, "email", app.Email)
		return uc.resolver.Resolve(ctx, service.ResolveQuery{
			Probability:   forceHighScoreProbability,
			JobType:       app.JobType,
			IsPremiumArea: premiumArea,
			IsFDC:         mlResult.HasFDC,
			MatrixType:    mlResult.MatrixType(),
			CustomParams:  app.CustomParams(),
		})
	}

	if firstFailed != "" {
		return failedBinaryMatrix(partnerCfg, firstFailed), nil
	}

	return uc.resolver.Resolve(ctx, service.ResolveQuery{
		Probability:   probability,
		JobType:       app.JobType,
		IsPremiumArea: premiumArea,
		IsFDC:         mlResult.HasFDC,
		MatrixType:    mlResult.MatrixType(),
		CustomParams:  app.CustomParams(),
	})
}

// runChain executes the interception chain on a C decision.
func (uc *ComputeCreditScoreUseCase) runChain(
	ctx context.Context,
	ic service.InterceptionContext,
	matrix model.CreditMatrix,
) (model.CreditMatrix, error) {
	ic.ScoreTag = matrix.ScoreTag
	ic.Original = matrix
	result, _, err := uc.chain.Run(ctx, ic)
	if err != nil {
		return model.CreditMatrix{}, err
	}
	return result, nil
}

// applySecondaryChecks runs the blacklist and fraud-model checks on non-C
// decisions. A hit downgrades to C and re-enters the interception chain; a
// pending good-FDC bypass that never fired is recorded as failed.
func (uc *ComputeCreditScoreUseCase) applySecondaryChecks(
	ctx context.Context,
	policy valueobject.PolicyConfig,
	ic service.InterceptionContext,
	matrix model.CreditMatrix,
) (model.CreditMatrix, error) {
	bypassEligible, err := uc.collaborators.GoodFDC.Eligible(ctx, ic.ApplicationID)
	if err != nil {
		return model.CreditMatrix{}, fmt.Errorf("check good-fdc eligibility: %w", err)
	}
	if bypassEligible {
		if err := uc.collaborators.GoodFDC.MarkBypassFailed(ctx, ic.ApplicationID); err != nil {
			return model.CreditMatrix{}, fmt.Errorf("mark bypass failed: %w", err)
		}
	}

	downgraded := false
	blacklisted, err := uc.collaborators.Blacklist.Eligible(ctx, ic.ApplicationID)
	if err != nil {
		return model.CreditMatrix{}, fmt.Errorf("check blacklist: %w", err)
	}
	if blacklisted {
		matrix = matrix.WithScore(valueobject.ScoreC, valueobject.TagBlacklisted)
		downgraded = true
	}

	if !downgraded {
		fraudProb, err := uc.collaborators.FraudModel.FraudProbability(ctx, ic.ApplicationID)
		if err != nil {
			return model.CreditMatrix{}, fmt.Errorf("fetch fraud probability: %w", err)
		}
		if fraudProb != nil && policy.FraudBand.Match(*fraudProb) {
			matrix = matrix.WithScore(valueobject.ScoreC, valueobject.TagHighFraudRisk)
			downgraded = true
		}
	}

	if !downgraded {
		return matrix, nil
	}
	return uc.runChain(ctx, ic, matrix)
}

// augmentAMinusProductLines appends the LOC product line to A- decisions.
// The append never duplicates an already-present entry.
func augmentAMinusProductLines(matrix model.CreditMatrix) model.CreditMatrix {
	if !matrix.Score.Equal(valueobject.ScoreAMinus) {
		return matrix
	}
	return matrix.WithProductLines(
		valueobject.AppendProductLine(matrix.ProductLines, valueobject.ProductLineLOC),
	)
}

// failedBinaryMatrix builds the decision row for a failed binary check from
// the partner's rule table, or a stock C row when no rule applies.
func failedBinaryMatrix(cfg *model.PartnerRuleConfig, check string) model.CreditMatrix {
	matrix := model.CreditMatrix{
		Score:        valueobject.ScoreC,
		ScoreTag:     valueobject.TagFailedBinary,
		MinThreshold: 0,
		MaxThreshold: 1,
		Message:      binaryFailMessage,
	}
	if cfg == nil {
		return matrix
	}

	rule := cfg.RuleFor(check)
	if rule.Message != "" {
		matrix.Message = rule.Message
	}
	if rule.Score != "" {
		if score, err := valueobject.NewScore(rule.Score); err == nil {
			matrix.Score = score
		}
	}
	matrix.ProductLines = append([]int(nil), rule.ProductLines...)
	return matrix
}

func toCreditScoreResponse(d model.ScoreDecision) dto.CreditScoreResponse {
	return dto.CreditScoreResponse{
		ID:                  d.ID().String(),
		ApplicationID:       d.ApplicationID(),
		Score:               d.Score().String(),
		ScoreTag:            d.ScoreTag(),
		ProductLines:        d.ProductLines(),
		Message:             d.Message(),
		CreditMatrixID:      d.MatrixID(),
		CreditMatrixVersion: d.MatrixVersion(),
		ModelVersion:        d.ModelVersion(),
		FDCInquiryCheck:     d.FDCInquiryCheck().Bool(),
		InsidePremiumArea:   d.InsidePremiumArea(),
		CreatedAt:           d.CreatedAt(),
	}
}
