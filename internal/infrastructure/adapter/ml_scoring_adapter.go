package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/julofinance/credit-engine/internal/domain/model"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// ML Scoring Adapter – structured for real integration
// ---------------------------------------------------------------------------

// MLScoringConfig holds configuration for the model-service adapter.
type MLScoringConfig struct {
	// BaseURL is the base URL for the model-service API.
	BaseURL string
	// APIKey is the authentication credential for the model-service API.
	APIKey string
	// TimeoutSeconds is the HTTP client timeout.
	TimeoutSeconds int
	// MaxRetries is the maximum number of retry attempts on transient failures.
	MaxRetries int
	// RetryBackoffMs is the base backoff duration in milliseconds between retries.
	RetryBackoffMs int
}

// DefaultMLScoringConfig returns sensible defaults for development.
func DefaultMLScoringConfig() MLScoringConfig {
	return MLScoringConfig{
		BaseURL:        "http://model-service.internal:8500",
		APIKey:         "dev-api-key",
		TimeoutSeconds: 10,
		MaxRetries:     3,
		RetryBackoffMs: 200,
	}
}

// MLScoringAdapter calls the credit-model service over HTTP with retry
// logic. It implements port.MLScoringClient.
type MLScoringAdapter struct {
	config MLScoringConfig
	client *http.Client
}

// NewMLScoringAdapter creates a new adapter with the given configuration.
func NewMLScoringAdapter(config MLScoringConfig) *MLScoringAdapter {
	return &MLScoringAdapter{
		config: config,
		client: &http.Client{Timeout: time.Duration(config.TimeoutSeconds) * time.Second},
	}
}

type modelResultPayload struct {
	PGood          *float64 `json:"pgood"`
	ProbabilityFPD *float64 `json:"probability_fpd"`
	HasFDC         bool     `json:"has_fdc"`
	ModelVersion   string   `json:"model_version"`
	Product        string   `json:"product"`
}

// ModelResult fetches the model output for an application. A 404 from the
// model service means the pipeline has not produced a result yet, which is
// reported as a nil result rather than an error.
func (a *MLScoringAdapter) ModelResult(ctx context.Context, applicationID int64) (*model.MLModelResult, error) {
	url := fmt.Sprintf("%s/v1/applications/%d/model-result", a.config.BaseURL, applicationID)

	body, status, err := a.doWithRetry(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("model service request failed: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("model service returned status %d", status)
	}

	var payload modelResultPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode model result: %w", err)
	}

	return &model.MLModelResult{
		PGood:          payload.PGood,
		ProbabilityFPD: payload.ProbabilityFPD,
		HasFDC:         payload.HasFDC,
		ModelVersion:   payload.ModelVersion,
		Product:        payload.Product,
	}, nil
}

// SubmitFDCFeedback reports the bureau-check verdict back to the model
// pipeline. Unknown verdicts are not submitted.
func (a *MLScoringAdapter) SubmitFDCFeedback(ctx context.Context, applicationID int64, passed valueobject.TriState) error {
	verdict := passed.Bool()
	if verdict == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]any{
		"application_id": applicationID,
		"fdc_passed":     *verdict,
	})
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}

	url := fmt.Sprintf("%s/v1/fdc-feedback", a.config.BaseURL)
	_, status, err := a.doWithRetry(ctx, http.MethodPost, url, payload)
	if err != nil {
		return fmt.Errorf("model service request failed: %w", err)
	}
	if status != http.StatusOK && status != http.StatusAccepted {
		return fmt.Errorf("model service returned status %d", status)
	}
	return nil
}

// doWithRetry issues the request with exponential backoff on transport
// errors and 5xx responses. 4xx responses are returned to the caller
// without retrying.
func (a *MLScoringAdapter) doWithRetry(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter.
			backoff := time.Duration(a.config.RetryBackoffMs) * time.Millisecond * (1 << uint(attempt-1))
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		body, status, err := a.do(ctx, method, url, payload)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("model service returned status %d", status)
			continue
		}
		return body, status, nil
	}

	return nil, 0, fmt.Errorf("exhausted %d retries: %w", a.config.MaxRetries, lastErr)
}

func (a *MLScoringAdapter) do(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
