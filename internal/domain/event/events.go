package event

import (
	"strconv"

	"github.com/julofinance/credit-engine/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// CreditScoreCreated is raised when a scoring run persists its decision.
type CreditScoreCreated struct {
	events.BaseEvent
	ApplicationID int64  `json:"application_id"`
	Score         string `json:"score"`
	ScoreTag      string `json:"score_tag"`
	ModelVersion  string `json:"model_version"`
}

func NewCreditScoreCreated(decisionID string, applicationID int64, score, scoreTag, modelVersion string) CreditScoreCreated {
	return CreditScoreCreated{
		BaseEvent:     events.NewBaseEvent("scoring.credit_score.created", decisionID, "CreditScore"),
		ApplicationID: applicationID,
		Score:         score,
		ScoreTag:      scoreTag,
		ModelVersion:  modelVersion,
	}
}

// CustomerPIIScrubbed is raised after a fraud check forces the customer's
// email or NIK to be nulled out.
type CustomerPIIScrubbed struct {
	events.BaseEvent
	CustomerID    int64    `json:"customer_id"`
	Fields        []string `json:"fields"`
	ForcedLogout  bool     `json:"forced_logout"`
	TriggerCheck  string   `json:"trigger_check"`
	ApplicationID int64    `json:"application_id"`
}

func NewCustomerPIIScrubbed(customerID, applicationID int64, triggerCheck string, fields []string, forcedLogout bool) CustomerPIIScrubbed {
	return CustomerPIIScrubbed{
		BaseEvent:     events.NewBaseEvent("scoring.customer.pii_scrubbed", strconv.FormatInt(customerID, 10), "Customer"),
		CustomerID:    customerID,
		ApplicationID: applicationID,
		TriggerCheck:  triggerCheck,
		Fields:        fields,
		ForcedLogout:  forcedLogout,
	}
}

// FDCFeedbackRecorded is raised when the FDC filter result is reported back
// to the upstream scoring model.
type FDCFeedbackRecorded struct {
	events.BaseEvent
	ApplicationID int64  `json:"application_id"`
	Result        string `json:"result"`
}

func NewFDCFeedbackRecorded(applicationID int64, result string) FDCFeedbackRecorded {
	return FDCFeedbackRecorded{
		BaseEvent:     events.NewBaseEvent("scoring.fdc_feedback.recorded", strconv.FormatInt(applicationID, 10), "CreditScore"),
		ApplicationID: applicationID,
		Result:        result,
	}
}
