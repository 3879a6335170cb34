package dto

import "time"

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ComputeCreditScoreRequest asks the engine to score an application.
type ComputeCreditScoreRequest struct {
	ApplicationID int64 `json:"application_id"`

	// SkipDelayChecking returns an existing C decision immediately instead
	// of honoring the configured delay window.
	SkipDelayChecking bool `json:"skip_delay_checking"`
}

// GetCreditScoreRequest identifies a persisted decision to retrieve.
type GetCreditScoreRequest struct {
	ApplicationID int64 `json:"application_id"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CreditScoreResponse is the external representation of a score decision.
type CreditScoreResponse struct {
	ID                  string    `json:"id"`
	ApplicationID       int64     `json:"application_id"`
	Score               string    `json:"score"`
	ScoreTag            string    `json:"score_tag,omitempty"`
	ProductLines        []int     `json:"product_lines"`
	Message             string    `json:"message,omitempty"`
	CreditMatrixID      int64     `json:"credit_matrix_id"`
	CreditMatrixVersion int       `json:"credit_matrix_version"`
	ModelVersion        string    `json:"model_version,omitempty"`
	FDCInquiryCheck     *bool     `json:"fdc_inquiry_check,omitempty"`
	InsidePremiumArea   bool      `json:"inside_premium_area"`
	CreatedAt           time.Time `json:"created_at"`
}
