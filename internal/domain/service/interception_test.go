package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
	"github.com/julofinance/credit-engine/internal/domain/service"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

func cContext() service.InterceptionContext {
	return service.InterceptionContext{
		ApplicationID: 2000000101,
		Probability:   0.60,
		JobType:       "Pegawai swasta",
		MatrixType:    model.MatrixTypeJulo1,
		ScoreTag:      valueobject.TagLowCreditScore,
		Original: model.CreditMatrix{
			ID: 99, Score: valueobject.ScoreC, ScoreTag: valueobject.TagLowCreditScore,
		},
	}
}

func TestInterceptionChain_NoStrategyKeepsOriginal(t *testing.T) {
	col, _, _ := chainCollaborators()
	repo := staticRepo(model.CreditMatrix{ID: 7, Version: 1, Score: valueobject.ScoreBMinus})
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	row, overridden, err := chain.Run(context.Background(), cContext())

	require.NoError(t, err)
	assert.False(t, overridden)
	assert.Equal(t, int64(99), row.ID)
}

func TestInterceptionChain_CLIKSwapInUsesNamedParameter(t *testing.T) {
	col, clik, _ := chainCollaborators()
	clik.signal = model.CLIKSignalSwapIn

	swapRow := model.CreditMatrix{
		ID: 5, Version: 1, Score: valueobject.ScoreBMinus,
		Parameter: model.MatrixParamCLIKSwapIn,
	}
	repo := staticRepo(swapRow)
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	row, overridden, err := chain.Run(context.Background(), cContext())

	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, int64(5), row.ID)
}

func TestInterceptionChain_FirstMatchWins(t *testing.T) {
	col, _, _ := chainCollaborators()
	waitlist := &eligibilityMock{eligible: true}
	referral := &eligibilityMock{eligible: true}
	col.Waitlist = waitlist
	col.GoodReferral = referral

	repo := staticRepo(model.CreditMatrix{ID: 7, Version: 1, Score: valueobject.ScoreBMinus})
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	ic := cContext()
	ic.Probability = 0.60 // above the referral floor, both strategies apply
	row, overridden, err := chain.Run(context.Background(), ic)

	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, int64(7), row.ID)
	assert.Equal(t, 1, waitlist.calls)
	assert.Zero(t, referral.calls, "later strategy must not run once an earlier one fires")
}

func TestInterceptionChain_WaitlistSkippedForPartnerApplications(t *testing.T) {
	col, _, _ := chainCollaborators()
	waitlist := &eligibilityMock{eligible: true}
	col.Waitlist = waitlist

	repo := staticRepo()
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	ic := cContext()
	ic.HasPartner = true
	_, overridden, err := chain.Run(context.Background(), ic)

	require.NoError(t, err)
	assert.False(t, overridden)
	assert.Zero(t, waitlist.calls)
}

func TestInterceptionChain_GoodReferralRequiresProbabilityFloor(t *testing.T) {
	col, _, _ := chainCollaborators()
	referral := &eligibilityMock{eligible: true}
	col.GoodReferral = referral

	repo := staticRepo(model.CreditMatrix{ID: 7, Version: 1, Score: valueobject.ScoreBMinus})
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	ic := cContext()
	ic.Probability = 0.50
	_, overridden, err := chain.Run(context.Background(), ic)
	require.NoError(t, err)
	assert.False(t, overridden)
	assert.Zero(t, referral.calls)

	ic.Probability = 0.51
	_, overridden, err = chain.Run(context.Background(), ic)
	require.NoError(t, err)
	assert.True(t, overridden)
}

func TestInterceptionChain_OfflineActivationParameterDependsOnScoreTag(t *testing.T) {
	col, _, _ := chainCollaborators()
	col.OfflineActivation = &eligibilityMock{eligible: true}

	repo := staticRepo(
		model.CreditMatrix{ID: 1, Version: 1, Score: valueobject.ScoreBMinus},
		model.CreditMatrix{ID: 2, Version: 1, Score: valueobject.ScoreBPlus, Parameter: model.MatrixParamGoodFDCBypass},
	)
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	ic := cContext()
	row, overridden, err := chain.Run(context.Background(), ic)
	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, int64(2), row.ID, "low-score tag uses the bypass-parameterized row")

	ic.ScoreTag = valueobject.TagFailedDynamicCheck
	row, overridden, err = chain.Run(context.Background(), ic)
	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, int64(1), row.ID, "dynamic-check tag uses the plain row")
}

func TestInterceptionChain_EntryLevelUsesDistinctMatrixType(t *testing.T) {
	col, _, _ := chainCollaborators()
	col.EntryLevel = &eligibilityMock{eligible: true}

	repo := staticRepo(model.CreditMatrix{ID: 3, Version: 1, Score: valueobject.ScoreBMinus})
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	_, overridden, err := chain.Run(context.Background(), cContext())

	require.NoError(t, err)
	assert.True(t, overridden)
	require.NotEmpty(t, repo.queries)
	assert.Equal(t, model.MatrixTypeEntryLevel, repo.queries[0].MatrixType)
}

func TestInterceptionChain_BinaryCheckGateAborts(t *testing.T) {
	col, _, goodFDC := chainCollaborators()
	col.BinaryCheckScoring = &eligibilityMock{eligible: false}
	goodFDC.eligible = true
	shopee := &supplierMock{row: &model.CreditMatrix{ID: 50, Score: valueobject.ScoreBMinus}}
	col.Shopee = shopee

	repo := staticRepo()
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	row, overridden, err := chain.Run(context.Background(), cContext())

	require.NoError(t, err)
	assert.False(t, overridden)
	assert.Equal(t, int64(99), row.ID)
	assert.Zero(t, shopee.calls, "gate must stop the tail strategies")
}

func TestInterceptionChain_GoodFDCBypassGatedByScoreTag(t *testing.T) {
	col, _, goodFDC := chainCollaborators()
	goodFDC.eligible = true

	repo := staticRepo(model.CreditMatrix{
		ID: 4, Version: 1, Score: valueobject.ScoreBMinus,
		Parameter: model.MatrixParamGoodFDCBypass,
	})
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	row, overridden, err := chain.Run(context.Background(), cContext())
	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, int64(4), row.ID)

	ic := cContext()
	ic.ScoreTag = valueobject.TagFailedBinary
	_, overridden, err = chain.Run(context.Background(), ic)
	require.NoError(t, err)
	assert.False(t, overridden, "bypass only fires for the allowed score tags")
}

func TestInterceptionChain_ExceptionalCGuardStopsTail(t *testing.T) {
	col, _, _ := chainCollaborators()
	shopee := &supplierMock{row: &model.CreditMatrix{ID: 50, Score: valueobject.ScoreBMinus}}
	col.Shopee = shopee

	repo := staticRepo()
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	ic := cContext()
	ic.ScoreTag = valueobject.TagBlacklisted
	row, overridden, err := chain.Run(context.Background(), ic)

	require.NoError(t, err)
	assert.False(t, overridden)
	assert.Equal(t, int64(99), row.ID)
	assert.Zero(t, shopee.calls)
}

func TestInterceptionChain_SupplierCascadeOrder(t *testing.T) {
	col, _, _ := chainCollaborators()
	tokoscore := &supplierMock{row: &model.CreditMatrix{ID: 60, Score: valueobject.ScoreBMinus}}
	autodebit := &supplierMock{row: &model.CreditMatrix{ID: 70, Score: valueobject.ScoreBPlus}}
	col.Tokoscore = tokoscore
	col.Autodebit = autodebit

	repo := staticRepo()
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	row, overridden, err := chain.Run(context.Background(), cContext())

	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, int64(60), row.ID)
	assert.Zero(t, autodebit.calls)
}

func TestInterceptionChain_CollaboratorErrorPropagates(t *testing.T) {
	col, _, _ := chainCollaborators()
	boom := errors.New("waitlist service unavailable")
	col.Waitlist = &eligibilityMock{err: boom}

	repo := staticRepo()
	chain := service.NewInterceptionChain(service.NewMatrixResolver(repo, discardLogger()), col, discardLogger())

	_, _, err := chain.Run(context.Background(), cContext())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

var _ port.CreditMatrixRepository = (*matrixRepoMock)(nil)
