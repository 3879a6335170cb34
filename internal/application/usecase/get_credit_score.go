package usecase

import (
	"context"
	"fmt"

	"github.com/julofinance/credit-engine/internal/application/dto"
	"github.com/julofinance/credit-engine/internal/domain/port"
)

// GetCreditScoreUseCase retrieves a persisted decision without triggering a
// scoring run.
type GetCreditScoreUseCase struct {
	decisions port.ScoreDecisionRepository
}

// NewGetCreditScoreUseCase wires dependencies.
func NewGetCreditScoreUseCase(decisions port.ScoreDecisionRepository) *GetCreditScoreUseCase {
	return &GetCreditScoreUseCase{decisions: decisions}
}

// Execute returns the decision for the application, or nil when none exists.
func (uc *GetCreditScoreUseCase) Execute(
	ctx context.Context,
	req dto.GetCreditScoreRequest,
) (*dto.CreditScoreResponse, error) {
	decision, err := uc.decisions.FindByApplicationID(ctx, req.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("find decision: %w", err)
	}
	if decision == nil {
		return nil, nil
	}
	resp := toCreditScoreResponse(*decision)
	return &resp, nil
}
