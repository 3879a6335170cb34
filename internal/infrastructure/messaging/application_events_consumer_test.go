package messaging_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julofinance/credit-engine/internal/application/dto"
	"github.com/julofinance/credit-engine/internal/infrastructure/messaging"
	"github.com/julofinance/credit-engine/pkg/kafka"
)

type scorerMock struct {
	executeFn func(ctx context.Context, req dto.ComputeCreditScoreRequest) (*dto.CreditScoreResponse, error)
	requests  []dto.ComputeCreditScoreRequest
}

func (m *scorerMock) Execute(ctx context.Context, req dto.ComputeCreditScoreRequest) (*dto.CreditScoreResponse, error) {
	m.requests = append(m.requests, req)
	if m.executeFn != nil {
		return m.executeFn(ctx, req)
	}
	return &dto.CreditScoreResponse{ApplicationID: req.ApplicationID, Score: "B+"}, nil
}

func newConsumer(scorer *scorerMock) *messaging.ApplicationEventsConsumer {
	return messaging.NewApplicationEventsConsumer(
		kafka.Config{Brokers: []string{"localhost:9092"}, ConsumerGroup: "test"},
		"application-service.application-events",
		scorer,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestApplicationEventsConsumer_HandleMessage(t *testing.T) {
	t.Run("scores a submitted application", func(t *testing.T) {
		scorer := &scorerMock{}
		consumer := newConsumer(scorer)

		err := consumer.HandleMessage(context.Background(), kafka.Message{
			Value: []byte(`{"application_id": 2000000101, "status": "form_submitted"}`),
		})

		require.NoError(t, err)
		require.Len(t, scorer.requests, 1)
		assert.Equal(t, int64(2000000101), scorer.requests[0].ApplicationID)
		assert.False(t, scorer.requests[0].SkipDelayChecking)
	})

	t.Run("ignores other lifecycle stages", func(t *testing.T) {
		scorer := &scorerMock{}
		consumer := newConsumer(scorer)

		err := consumer.HandleMessage(context.Background(), kafka.Message{
			Value: []byte(`{"application_id": 2000000101, "status": "approved"}`),
		})

		require.NoError(t, err)
		assert.Empty(t, scorer.requests)
	})

	t.Run("not scoreable yet is not an error", func(t *testing.T) {
		scorer := &scorerMock{
			executeFn: func(context.Context, dto.ComputeCreditScoreRequest) (*dto.CreditScoreResponse, error) {
				return nil, nil
			},
		}
		consumer := newConsumer(scorer)

		err := consumer.HandleMessage(context.Background(), kafka.Message{
			Value: []byte(`{"application_id": 42, "status": "form_submitted"}`),
		})

		assert.NoError(t, err)
	})

	t.Run("propagates scoring errors", func(t *testing.T) {
		wantErr := errors.New("policy snapshot failed")
		scorer := &scorerMock{
			executeFn: func(context.Context, dto.ComputeCreditScoreRequest) (*dto.CreditScoreResponse, error) {
				return nil, wantErr
			},
		}
		consumer := newConsumer(scorer)

		err := consumer.HandleMessage(context.Background(), kafka.Message{
			Value: []byte(`{"application_id": 42, "status": "form_submitted"}`),
		})

		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		scorer := &scorerMock{}
		consumer := newConsumer(scorer)

		assert.Error(t, consumer.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{`)}))
		assert.Error(t, consumer.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"status":"form_submitted"}`)}))
		assert.Empty(t, scorer.requests)
	})
}
