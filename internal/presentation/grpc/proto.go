package grpc

// proto.go defines the gRPC server interface derived from julo/scoring/v1/scoring.proto.
// This file serves as a stand-in for buf-generated code. Once `buf generate` is run,
// replace this file with the import from github.com/julofinance/credit-engine/api/gen/go/julo/scoring/v1.

import (
	"context"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ComputeCreditScoreRequest mirrors julo.scoring.v1.ComputeCreditScoreRequest.
type ComputeCreditScoreRequest struct {
	ApplicationID     int64 `json:"application_id"`
	SkipDelayChecking bool  `json:"skip_delay_checking"`
}

// GetCreditScoreRequest mirrors julo.scoring.v1.GetCreditScoreRequest.
type GetCreditScoreRequest struct {
	ApplicationID int64 `json:"application_id"`
}

// CreditScore mirrors julo.scoring.v1.CreditScore.
type CreditScore struct {
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

// ComputeCreditScoreResponse mirrors julo.scoring.v1.ComputeCreditScoreResponse.
// Ready is false when the application cannot be scored yet; Score is unset
// in that case.
type ComputeCreditScoreResponse struct {
	Ready bool         `json:"ready"`
	Score *CreditScore `json:"score,omitempty"`
}

// GetCreditScoreResponse mirrors julo.scoring.v1.GetCreditScoreResponse.
type GetCreditScoreResponse struct {
	Score *CreditScore `json:"score"`
}

// ScoringServiceServer is the server API for ScoringService.
// It mirrors the proto-generated interface from julo.scoring.v1.ScoringService.
type ScoringServiceServer interface {
	ComputeCreditScore(context.Context, *ComputeCreditScoreRequest) (*ComputeCreditScoreResponse, error)
	GetCreditScore(context.Context, *GetCreditScoreRequest) (*GetCreditScoreResponse, error)
	mustEmbedUnimplementedScoringServiceServer()
}

// UnimplementedScoringServiceServer provides forward-compatible default implementations.
type UnimplementedScoringServiceServer struct{}

func (UnimplementedScoringServiceServer) ComputeCreditScore(context.Context, *ComputeCreditScoreRequest) (*ComputeCreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ComputeCreditScore not implemented")
}
func (UnimplementedScoringServiceServer) GetCreditScore(context.Context, *GetCreditScoreRequest) (*GetCreditScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCreditScore not implemented")
}
func (UnimplementedScoringServiceServer) mustEmbedUnimplementedScoringServiceServer() {}

// RegisterScoringServiceServer registers the ScoringServiceServer with the gRPC server.
func RegisterScoringServiceServer(s *grpclib.Server, srv ScoringServiceServer) {
	s.RegisterService(&_ScoringService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _ScoringService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "julo.scoring.v1.ScoringService",
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ComputeCreditScore", Handler: _ScoringService_ComputeCreditScore_Handler}, //nolint:revive // gRPC handler registration
		{MethodName: "GetCreditScore", Handler: _ScoringService_GetCreditScore_Handler},         //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_ComputeCreditScore_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ComputeCreditScoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ComputeCreditScore(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/julo.scoring.v1.ScoringService/ComputeCreditScore",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).ComputeCreditScore(ctx, req.(*ComputeCreditScoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _ScoringService_GetCreditScore_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetCreditScoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).GetCreditScore(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/julo.scoring.v1.ScoringService/GetCreditScore",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScoringServiceServer).GetCreditScore(ctx, req.(*GetCreditScoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}
