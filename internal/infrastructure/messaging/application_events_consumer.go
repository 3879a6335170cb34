package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/julofinance/credit-engine/internal/application/dto"
	"github.com/julofinance/credit-engine/pkg/kafka"
)

// ScoreComputer is the slice of the compute use case the consumer needs.
type ScoreComputer interface {
	Execute(ctx context.Context, req dto.ComputeCreditScoreRequest) (*dto.CreditScoreResponse, error)
}

// applicationEvent is the shape published by the application service when a
// submission reaches the scoring stage.
type applicationEvent struct {
	ApplicationID int64  `json:"application_id"`
	Status        string `json:"status"`
}

const statusFormSubmitted = "form_submitted"

// ApplicationEventsConsumer scores applications as their submission events
// arrive, so most decisions already exist by the time a client polls.
type ApplicationEventsConsumer struct {
	consumer *kafka.Consumer
	scorer   ScoreComputer
	log      *slog.Logger
}

// NewApplicationEventsConsumer subscribes to the application events topic.
func NewApplicationEventsConsumer(
	cfg kafka.Config,
	topic string,
	scorer ScoreComputer,
	log *slog.Logger,
) *ApplicationEventsConsumer {
	c := &ApplicationEventsConsumer{scorer: scorer, log: log}
	c.consumer = kafka.NewConsumer(cfg, topic, c.HandleMessage, log)
	return c
}

// Run consumes until the context is canceled.
func (c *ApplicationEventsConsumer) Run(ctx context.Context) error {
	return c.consumer.Run(ctx)
}

// Close releases the underlying reader.
func (c *ApplicationEventsConsumer) Close() error {
	return c.consumer.Close()
}

// HandleMessage scores the application named by one event. Events for other
// lifecycle stages are ignored. A not-yet-scoreable application is not an
// error; scoring happens again when the client polls.
func (c *ApplicationEventsConsumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var evt applicationEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("decode application event: %w", err)
	}
	if evt.ApplicationID <= 0 {
		return fmt.Errorf("application event without application_id")
	}
	if evt.Status != statusFormSubmitted {
		return nil
	}

	result, err := c.scorer.Execute(ctx, dto.ComputeCreditScoreRequest{
		ApplicationID: evt.ApplicationID,
	})
	if err != nil {
		return fmt.Errorf("score application %d: %w", evt.ApplicationID, err)
	}
	if result == nil {
		c.log.Debug("application not scoreable yet",
			slog.Int64("application_id", evt.ApplicationID),
		)
		return nil
	}

	c.log.Info("scored application from submission event",
		slog.Int64("application_id", evt.ApplicationID),
		slog.String("score", result.Score),
	)
	return nil
}
