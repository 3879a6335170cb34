package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/application/dto"
	"github.com/julofinance/credit-engine/internal/application/usecase"
	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

func TestGetCreditScore_Execute(t *testing.T) {
	t.Run("returns the persisted decision", func(t *testing.T) {
		decision := existingDecision(valueobject.ScoreBPlus, "", "v2.1.0",
			time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
		repo := &mockDecisionRepo{
			findFunc: func(context.Context, int64) (*model.ScoreDecision, error) {
				return &decision, nil
			},
		}
		uc := usecase.NewGetCreditScoreUseCase(repo)

		resp, err := uc.Execute(context.Background(), dto.GetCreditScoreRequest{ApplicationID: testApplicationID})

		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, decision.ID().String(), resp.ID)
		assert.Equal(t, "B+", resp.Score)
	})

	t.Run("returns nil when no decision exists", func(t *testing.T) {
		uc := usecase.NewGetCreditScoreUseCase(&mockDecisionRepo{})

		resp, err := uc.Execute(context.Background(), dto.GetCreditScoreRequest{ApplicationID: testApplicationID})

		require.NoError(t, err)
		assert.Nil(t, resp)
	})
}
