package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Stub collaborators – deterministic development/test adapters
// ---------------------------------------------------------------------------

// hashPercent maps (salt, applicationID) onto [0, 100). The same inputs
// always land on the same value, so stub verdicts are reproducible.
func hashPercent(salt string, applicationID int64) uint32 {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", salt, applicationID)))
	return binary.BigEndian.Uint32(h[:4]) % 100
}

// StubPremiumAreaClient answers the premium-area question from the
// application ID hash. It implements port.PremiumAreaClient.
type StubPremiumAreaClient struct{}

func NewStubPremiumAreaClient() *StubPremiumAreaClient {
	return &StubPremiumAreaClient{}
}

func (c *StubPremiumAreaClient) InsidePremiumArea(_ context.Context, applicationID int64) (*bool, error) {
	inside := hashPercent("premium-area", applicationID) < 70
	return &inside, nil
}

// StubCLIKClient returns a deterministic bureau swap signal. Most
// applications get no signal; a small band swaps in or out.
// It implements port.CLIKClient.
type StubCLIKClient struct{}

func NewStubCLIKClient() *StubCLIKClient {
	return &StubCLIKClient{}
}

func (c *StubCLIKClient) Signal(_ context.Context, applicationID int64) (model.CLIKSignal, error) {
	switch p := hashPercent("clik", applicationID); {
	case p < 5:
		return model.CLIKSignalSwapIn, nil
	case p < 10:
		return model.CLIKSignalSwapOut, nil
	default:
		return model.CLIKSignalNone, nil
	}
}

// StubEligibilityClient answers yes for a configurable share of
// applications, salted by channel name so channels disagree per
// application. It implements port.EligibilityClient.
type StubEligibilityClient struct {
	channel    string
	approvePct uint32
}

// NewStubEligibilityClient creates a stub for the named channel that
// approves approvePct percent of applications.
func NewStubEligibilityClient(channel string, approvePct uint32) *StubEligibilityClient {
	return &StubEligibilityClient{channel: channel, approvePct: approvePct}
}

func (c *StubEligibilityClient) Eligible(_ context.Context, applicationID int64) (bool, error) {
	return hashPercent(c.channel, applicationID) < c.approvePct, nil
}

// NilOverrideSupplier is a partnership channel that never applies.
// It implements port.OverrideSupplier.
type NilOverrideSupplier struct{}

func NewNilOverrideSupplier() *NilOverrideSupplier {
	return &NilOverrideSupplier{}
}

func (s *NilOverrideSupplier) OverrideMatrix(_ context.Context, _ int64) (*model.CreditMatrix, error) {
	return nil, nil
}

// StubGoodFDCClient grants the good-bureau-history bypass for a small
// deterministic band and logs failed-bypass bookkeeping instead of
// persisting it. It implements port.GoodFDCClient.
type StubGoodFDCClient struct {
	logger *slog.Logger
}

func NewStubGoodFDCClient(logger *slog.Logger) *StubGoodFDCClient {
	return &StubGoodFDCClient{logger: logger}
}

func (c *StubGoodFDCClient) Eligible(_ context.Context, applicationID int64) (bool, error) {
	return hashPercent("good-fdc", applicationID) < 15, nil
}

func (c *StubGoodFDCClient) MarkBypassFailed(_ context.Context, applicationID int64) error {
	c.logger.Debug("good-bureau bypass not applied",
		slog.Int64("application_id", applicationID),
	)
	return nil
}

// StubFraudModelClient derives a fraud probability from the application
// ID hash. It implements port.FraudModelClient.
type StubFraudModelClient struct{}

func NewStubFraudModelClient() *StubFraudModelClient {
	return &StubFraudModelClient{}
}

func (c *StubFraudModelClient) FraudProbability(_ context.Context, applicationID int64) (*float64, error) {
	p := float64(hashPercent("fraud-model", applicationID)) / 100
	return &p, nil
}

// StubCollaborators bundles every stub into the wiring the use case
// expects. The ML client is supplied separately because it has a real
// HTTP implementation.
func StubCollaborators(ml port.MLScoringClient, logger *slog.Logger) port.Collaborators {
	return port.Collaborators{
		ML:          ml,
		PremiumArea: NewStubPremiumAreaClient(),
		CLIK:        NewStubCLIKClient(),
		FraudModel:  NewStubFraudModelClient(),

		GoodFDC: NewStubGoodFDCClient(logger),

		Waitlist:           NewStubEligibilityClient("waitlist", 5),
		OfflineActivation:  NewStubEligibilityClient("offline-activation", 5),
		EntryLevel:         NewStubEligibilityClient("entry-level", 10),
		GoodReferral:       NewStubEligibilityClient("good-referral", 10),
		Blacklist:          NewStubEligibilityClient("blacklist", 2),
		BinaryCheckScoring: NewStubEligibilityClient("binary-check-scoring", 95),
		Telco:              NewStubEligibilityClient("telco", 10),

		Shopee:    NewNilOverrideSupplier(),
		Tokoscore: NewNilOverrideSupplier(),
		Autodebit: NewNilOverrideSupplier(),
	}
}
