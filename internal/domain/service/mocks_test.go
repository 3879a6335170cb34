package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type matrixRepoMock struct {
	findFn func(ctx context.Context, q port.CreditMatrixQuery) ([]model.CreditMatrix, error)

	queries []port.CreditMatrixQuery
}

func (m *matrixRepoMock) FindCandidates(ctx context.Context, q port.CreditMatrixQuery) ([]model.CreditMatrix, error) {
	m.queries = append(m.queries, q)
	if m.findFn == nil {
		return nil, nil
	}
	return m.findFn(ctx, q)
}

type eligibilityMock struct {
	eligible bool
	err      error
	calls    int
}

func (m *eligibilityMock) Eligible(context.Context, int64) (bool, error) {
	m.calls++
	return m.eligible, m.err
}

type clikMock struct {
	signal model.CLIKSignal
	err    error
}

func (m *clikMock) Signal(context.Context, int64) (model.CLIKSignal, error) {
	return m.signal, m.err
}

type goodFDCMock struct {
	eligible          bool
	err               error
	bypassFailedCalls int
}

func (m *goodFDCMock) Eligible(context.Context, int64) (bool, error) {
	return m.eligible, m.err
}

func (m *goodFDCMock) MarkBypassFailed(context.Context, int64) error {
	m.bypassFailedCalls++
	return nil
}

type supplierMock struct {
	row   *model.CreditMatrix
	err   error
	calls int
}

func (m *supplierMock) OverrideMatrix(context.Context, int64) (*model.CreditMatrix, error) {
	m.calls++
	return m.row, m.err
}

// chainCollaborators returns a collaborator set where nothing is eligible.
// Tests flip individual members on.
func chainCollaborators() (port.Collaborators, *clikMock, *goodFDCMock) {
	clik := &clikMock{signal: model.CLIKSignalNone}
	goodFDC := &goodFDCMock{}
	col := port.Collaborators{
		CLIK:               clik,
		GoodFDC:            goodFDC,
		Waitlist:           &eligibilityMock{},
		OfflineActivation:  &eligibilityMock{},
		EntryLevel:         &eligibilityMock{},
		GoodReferral:       &eligibilityMock{},
		Blacklist:          &eligibilityMock{},
		BinaryCheckScoring: &eligibilityMock{eligible: true},
		Telco:              &eligibilityMock{},
		Shopee:             &supplierMock{},
		Tokoscore:          &supplierMock{},
		Autodebit:          &supplierMock{},
	}
	return col, clik, goodFDC
}
