package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/julofinance/credit-engine/internal/application/dto"
	"github.com/julofinance/credit-engine/internal/application/usecase"
)

// ---------------------------------------------------------------------------
// ScoringHandler exposes credit-scoring operations over gRPC.
// ---------------------------------------------------------------------------

// ScoringHandler is the gRPC handler for scoring operations.
type ScoringHandler struct {
	UnimplementedScoringServiceServer

	compute *usecase.ComputeCreditScoreUseCase
	get     *usecase.GetCreditScoreUseCase
	logger  *slog.Logger
}

// NewScoringHandler creates a new handler with all use-case dependencies.
func NewScoringHandler(
	compute *usecase.ComputeCreditScoreUseCase,
	get *usecase.GetCreditScoreUseCase,
	logger *slog.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		compute: compute,
		get:     get,
		logger:  logger,
	}
}

// ComputeCreditScore scores an application, returning Ready=false when the
// model pipeline or prerequisite data has not arrived yet.
func (h *ScoringHandler) ComputeCreditScore(
	ctx context.Context,
	req *ComputeCreditScoreRequest,
) (*ComputeCreditScoreResponse, error) {
	if req.ApplicationID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}

	result, err := h.compute.Execute(ctx, dto.ComputeCreditScoreRequest{
		ApplicationID:     req.ApplicationID,
		SkipDelayChecking: req.SkipDelayChecking,
	})
	if err != nil {
		h.logger.Error("compute credit score failed",
			slog.Int64("application_id", req.ApplicationID),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "failed to compute credit score")
	}
	if result == nil {
		return &ComputeCreditScoreResponse{Ready: false}, nil
	}

	return &ComputeCreditScoreResponse{
		Ready: true,
		Score: toWireScore(result),
	}, nil
}

// GetCreditScore returns the persisted decision for an application.
func (h *ScoringHandler) GetCreditScore(
	ctx context.Context,
	req *GetCreditScoreRequest,
) (*GetCreditScoreResponse, error) {
	if req.ApplicationID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "application_id is required")
	}

	result, err := h.get.Execute(ctx, dto.GetCreditScoreRequest{ApplicationID: req.ApplicationID})
	if err != nil {
		h.logger.Error("get credit score failed",
			slog.Int64("application_id", req.ApplicationID),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "failed to load credit score")
	}
	if result == nil {
		return nil, status.Error(codes.NotFound, "no credit score for application")
	}

	return &GetCreditScoreResponse{Score: toWireScore(result)}, nil
}

func toWireScore(r *dto.CreditScoreResponse) *CreditScore {
	return &CreditScore{
		ID:                  r.ID,
		ApplicationID:       r.ApplicationID,
		Score:               r.Score,
		ScoreTag:            r.ScoreTag,
		ProductLines:        r.ProductLines,
		Message:             r.Message,
		CreditMatrixID:      r.CreditMatrixID,
		CreditMatrixVersion: r.CreditMatrixVersion,
		ModelVersion:        r.ModelVersion,
		FDCInquiryCheck:     r.FDCInquiryCheck,
		InsidePremiumArea:   r.InsidePremiumArea,
		CreatedAt:           r.CreatedAt,
	}
}
