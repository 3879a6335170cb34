package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/julofinance/credit-engine/internal/domain/event"
	"github.com/julofinance/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// ScoreDecision aggregate root
// ---------------------------------------------------------------------------

// ScoreDecision is the persisted outcome of one scoring run. At most one
// decision exists per application; once written it is immutable except for a
// lazily-backfilled model version.
type ScoreDecision struct {
	id                uuid.UUID
	applicationID     int64
	score             valueobject.Score
	scoreTag          string
	productLines      []int
	message           string
	matrixID          int64
	matrixVersion     int
	modelVersion      string
	fdcInquiryCheck   valueobject.TriState
	insidePremiumArea bool
	createdAt         time.Time
	domainEvents      []event.DomainEvent
}

// NewScoreDecision creates a decision from the resolved credit-matrix row and
// records the creation event.
func NewScoreDecision(
	applicationID int64,
	matrix CreditMatrix,
	modelVersion string,
	fdcInquiryCheck valueobject.TriState,
	insidePremiumArea bool,
	now time.Time,
) ScoreDecision {
	d := ScoreDecision{
		id:                uuid.New(),
		applicationID:     applicationID,
		score:             matrix.Score,
		scoreTag:          matrix.ScoreTag,
		productLines:      append([]int(nil), matrix.ProductLines...),
		message:           matrix.Message,
		matrixID:          matrix.ID,
		matrixVersion:     matrix.Version,
		modelVersion:      modelVersion,
		fdcInquiryCheck:   fdcInquiryCheck,
		insidePremiumArea: insidePremiumArea,
		createdAt:         now,
	}

	d.domainEvents = append(d.domainEvents, event.NewCreditScoreCreated(
		d.id.String(), applicationID, matrix.Score.String(), matrix.ScoreTag, modelVersion,
	))
	if fdcInquiryCheck != valueobject.TriStateUnknown {
		d.domainEvents = append(d.domainEvents,
			event.NewFDCFeedbackRecorded(applicationID, fdcInquiryCheck.String()))
	}
	return d
}

// ReconstructScoreDecision rebuilds a decision from persistence without
// side effects.
func ReconstructScoreDecision(
	id uuid.UUID,
	applicationID int64,
	score valueobject.Score,
	scoreTag string,
	productLines []int,
	message string,
	matrixID int64,
	matrixVersion int,
	modelVersion string,
	fdcInquiryCheck valueobject.TriState,
	insidePremiumArea bool,
	createdAt time.Time,
) ScoreDecision {
	return ScoreDecision{
		id:                id,
		applicationID:     applicationID,
		score:             score,
		scoreTag:          scoreTag,
		productLines:      productLines,
		message:           message,
		matrixID:          matrixID,
		matrixVersion:     matrixVersion,
		modelVersion:      modelVersion,
		fdcInquiryCheck:   fdcInquiryCheck,
		insidePremiumArea: insidePremiumArea,
		createdAt:         createdAt,
	}
}

// WithModelVersion returns a copy carrying the backfilled model version.
// The only mutation permitted after creation.
func (d ScoreDecision) WithModelVersion(version string) ScoreDecision {
	next := d
	next.modelVersion = version
	return next
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (d ScoreDecision) ID() uuid.UUID                          { return d.id }
func (d ScoreDecision) ApplicationID() int64                   { return d.applicationID }
func (d ScoreDecision) Score() valueobject.Score               { return d.score }
func (d ScoreDecision) ScoreTag() string                       { return d.scoreTag }
func (d ScoreDecision) ProductLines() []int                    { return d.productLines }
func (d ScoreDecision) Message() string                        { return d.message }
func (d ScoreDecision) MatrixID() int64                        { return d.matrixID }
func (d ScoreDecision) MatrixVersion() int                     { return d.matrixVersion }
func (d ScoreDecision) ModelVersion() string                   { return d.modelVersion }
func (d ScoreDecision) FDCInquiryCheck() valueobject.TriState  { return d.fdcInquiryCheck }
func (d ScoreDecision) InsidePremiumArea() bool                { return d.insidePremiumArea }
func (d ScoreDecision) CreatedAt() time.Time                   { return d.createdAt }
func (d ScoreDecision) DomainEvents() []event.DomainEvent      { return d.domainEvents }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (d ScoreDecision) ClearEvents() ScoreDecision {
	next := d
	next.domainEvents = nil
	return next
}
