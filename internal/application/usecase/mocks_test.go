package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/application/usecase"
	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
	"github.com/julofinance/credit-engine/internal/domain/service"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// --- Mock implementations ---

type mockDecisionRepo struct {
	findFunc          func(ctx context.Context, applicationID int64) (*model.ScoreDecision, error)
	createFunc        func(ctx context.Context, d model.ScoreDecision) (model.ScoreDecision, error)
	updateVersionFunc func(ctx context.Context, id uuid.UUID, version string) error

	created        []model.ScoreDecision
	versionUpdates []string
}

func (m *mockDecisionRepo) FindByApplicationID(ctx context.Context, applicationID int64) (*model.ScoreDecision, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, applicationID)
	}
	return nil, nil
}

func (m *mockDecisionRepo) Create(ctx context.Context, d model.ScoreDecision) (model.ScoreDecision, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, d)
	}
	m.created = append(m.created, d)
	return d, nil
}

func (m *mockDecisionRepo) UpdateModelVersion(ctx context.Context, id uuid.UUID, version string) error {
	if m.updateVersionFunc != nil {
		return m.updateVersionFunc(ctx, id, version)
	}
	m.versionUpdates = append(m.versionUpdates, version)
	return nil
}

type mockApplicationRepo struct {
	snapshotFunc func(ctx context.Context, applicationID int64) (*model.ApplicationSnapshot, error)
	snapshot     *model.ApplicationSnapshot
}

func (m *mockApplicationRepo) Snapshot(ctx context.Context, applicationID int64) (*model.ApplicationSnapshot, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx, applicationID)
	}
	return m.snapshot, nil
}

type mockBinaryCheckRepo struct {
	failed valueobject.CheckSet
}

func (m *mockBinaryCheckRepo) FailedChecks(context.Context, int64) (valueobject.CheckSet, error) {
	if m.failed == nil {
		return valueobject.NewCheckSet(), nil
	}
	return m.failed.Clone(), nil
}

type mockCustomerRepo struct {
	goodHistory bool

	scrubCalls []string // trigger checks, in order
}

func (m *mockCustomerRepo) HasGoodPaymentHistory(context.Context, int64) (bool, error) {
	return m.goodHistory, nil
}

func (m *mockCustomerRepo) ScrubFraudPII(_ context.Context, _, _ int64, triggerCheck string) error {
	m.scrubCalls = append(m.scrubCalls, triggerCheck)
	return nil
}

type mockFDCRepo struct {
	inquiry *model.FDCInquiry
	summary model.FDCLoanSummary
}

func (m *mockFDCRepo) LatestInquiry(context.Context, int64) (*model.FDCInquiry, error) {
	return m.inquiry, nil
}

func (m *mockFDCRepo) LoanSummary(context.Context, int64) (model.FDCLoanSummary, error) {
	return m.summary, nil
}

type mockPartnerRules struct {
	configs map[string]*model.PartnerRuleConfig
}

func (m *mockPartnerRules) ConfigFor(_ context.Context, partner string) (*model.PartnerRuleConfig, error) {
	return m.configs[partner], nil
}

type mockPolicyProvider struct {
	policy valueobject.PolicyConfig
}

func (m *mockPolicyProvider) Snapshot(context.Context) (valueobject.PolicyConfig, error) {
	return m.policy, nil
}

type mockMLClient struct {
	result *model.MLModelResult

	feedback []valueobject.TriState
}

func (m *mockMLClient) ModelResult(context.Context, int64) (*model.MLModelResult, error) {
	return m.result, nil
}

func (m *mockMLClient) SubmitFDCFeedback(_ context.Context, _ int64, state valueobject.TriState) error {
	m.feedback = append(m.feedback, state)
	return nil
}

type mockPremiumArea struct {
	inside *bool
}

func (m *mockPremiumArea) InsidePremiumArea(context.Context, int64) (*bool, error) {
	return m.inside, nil
}

type mockFraudModel struct {
	probability *float64
}

func (m *mockFraudModel) FraudProbability(context.Context, int64) (*float64, error) {
	return m.probability, nil
}

type eligibilityMock struct {
	eligible bool
	calls    int
}

func (m *eligibilityMock) Eligible(context.Context, int64) (bool, error) {
	m.calls++
	return m.eligible, nil
}

type clikMock struct {
	signal model.CLIKSignal
}

func (m *clikMock) Signal(context.Context, int64) (model.CLIKSignal, error) {
	return m.signal, nil
}

type goodFDCMock struct {
	eligible          bool
	bypassFailedCalls int
}

func (m *goodFDCMock) Eligible(context.Context, int64) (bool, error) {
	return m.eligible, nil
}

func (m *goodFDCMock) MarkBypassFailed(context.Context, int64) error {
	m.bypassFailedCalls++
	return nil
}

type supplierMock struct {
	row *model.CreditMatrix
}

func (m *supplierMock) OverrideMatrix(context.Context, int64) (*model.CreditMatrix, error) {
	return m.row, nil
}

type matrixRepoMock struct {
	rows []model.CreditMatrix

	queries []port.CreditMatrixQuery
}

// FindCandidates filters the configured rows by threshold range and matrix
// type, mirroring the storage query.
func (m *matrixRepoMock) FindCandidates(_ context.Context, q port.CreditMatrixQuery) ([]model.CreditMatrix, error) {
	m.queries = append(m.queries, q)
	var out []model.CreditMatrix
	for _, row := range m.rows {
		if row.Matches(q.Probability) && row.MatrixType == q.MatrixType {
			out = append(out, row)
		}
	}
	return out, nil
}

// --- Fixture ---

const (
	testApplicationID = int64(2000000101)
	testCustomerID    = int64(1000000101)
)

// scoringFixture wires a full use case against defaults that resolve an A-
// decision: probability 0.92, salaried, premium area, no failed checks, no
// eligible collaborators.
type scoringFixture struct {
	decisions  *mockDecisionRepo
	apps       *mockApplicationRepo
	checks     *mockBinaryCheckRepo
	customers  *mockCustomerRepo
	fdc        *mockFDCRepo
	partners   *mockPartnerRules
	policy     *mockPolicyProvider
	matrixRepo *matrixRepoMock
	ml         *mockMLClient
	premium    *mockPremiumArea
	clik       *clikMock
	goodFDC    *goodFDCMock
	fraud      *mockFraudModel

	waitlist  *eligibilityMock
	offline   *eligibilityMock
	entry     *eligibilityMock
	referral  *eligibilityMock
	blacklist *eligibilityMock
	gate      *eligibilityMock
	telco     *eligibilityMock
	shopee    *supplierMock
	tokoscore *supplierMock
	autodebit *supplierMock

	now time.Time
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func requireDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func defaultMatrixRows() []model.CreditMatrix {
	return []model.CreditMatrix{
		{
			ID: 11, Version: 3, Score: valueobject.ScoreAMinus,
			MinThreshold: 0.90, MaxThreshold: 1.0,
			MatrixType: model.MatrixTypeJulo1, ProductLines: []int{valueobject.ProductLineJ1},
		},
		{
			ID: 12, Version: 3, Score: valueobject.ScoreBMinus,
			MinThreshold: 0.60, MaxThreshold: 0.90,
			MatrixType: model.MatrixTypeJulo1, ProductLines: []int{valueobject.ProductLineJ1},
		},
		{
			ID: 13, Version: 3, Score: valueobject.ScoreC, ScoreTag: valueobject.TagLowCreditScore,
			MinThreshold: 0, MaxThreshold: 0.60,
			MatrixType: model.MatrixTypeJulo1,
		},
	}
}

func newScoringFixture() *scoringFixture {
	return &scoringFixture{
		decisions: &mockDecisionRepo{},
		apps: &mockApplicationRepo{
			snapshot: &model.ApplicationSnapshot{
				ID:         testApplicationID,
				CustomerID: testCustomerID,
				Email:      "applicant@example.com",
				NIK:        "3174051234560001",
				JobType:    "Pegawai negeri",
			},
		},
		checks:     &mockBinaryCheckRepo{},
		customers:  &mockCustomerRepo{},
		fdc:        &mockFDCRepo{},
		partners:   &mockPartnerRules{},
		policy:     &mockPolicyProvider{},
		matrixRepo: &matrixRepoMock{rows: defaultMatrixRows()},
		ml: &mockMLClient{
			result: &model.MLModelResult{
				PGood:        floatPtr(0.92),
				ModelVersion: "v2.1.0",
			},
		},
		premium:   &mockPremiumArea{inside: boolPtr(true)},
		clik:      &clikMock{signal: model.CLIKSignalNone},
		goodFDC:   &goodFDCMock{},
		fraud:     &mockFraudModel{},
		waitlist:  &eligibilityMock{},
		offline:   &eligibilityMock{},
		entry:     &eligibilityMock{},
		referral:  &eligibilityMock{},
		blacklist: &eligibilityMock{},
		gate:      &eligibilityMock{eligible: true},
		telco:     &eligibilityMock{},
		shopee:    &supplierMock{},
		tokoscore: &supplierMock{},
		autodebit: &supplierMock{},
		now:       time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (f *scoringFixture) collaborators() port.Collaborators {
	return port.Collaborators{
		ML:                 f.ml,
		PremiumArea:        f.premium,
		CLIK:               f.clik,
		FraudModel:         f.fraud,
		GoodFDC:            f.goodFDC,
		Waitlist:           f.waitlist,
		OfflineActivation:  f.offline,
		EntryLevel:         f.entry,
		GoodReferral:       f.referral,
		Blacklist:          f.blacklist,
		BinaryCheckScoring: f.gate,
		Telco:              f.telco,
		Shopee:             f.shopee,
		Tokoscore:          f.tokoscore,
		Autodebit:          f.autodebit,
	}
}

func (f *scoringFixture) useCase() *usecase.ComputeCreditScoreUseCase {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	resolver := service.NewMatrixResolver(f.matrixRepo, log)
	chain := service.NewInterceptionChain(resolver, f.collaborators(), log)
	return usecase.NewComputeCreditScoreUseCase(
		f.decisions, f.apps, f.checks, f.customers, f.fdc,
		f.partners, f.policy, f.collaborators(), resolver, chain, log,
	).WithClock(func() time.Time { return f.now })
}
