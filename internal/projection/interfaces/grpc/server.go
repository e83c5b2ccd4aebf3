// Package grpc 金融测算服务的 gRPC 接口，消息以 JSON 编解码
package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
)

// ServiceName gRPC 服务全名
const ServiceName = "finsimulator.v1.ProjectionService"

// ProjectionServer gRPC 服务接口
type ProjectionServer interface {
	CalculateMortgage(context.Context, *application.MortgageRequest) (*application.MortgageResponse, error)
	CalculateCredit(context.Context, *application.CreditRequest) (*application.CreditResponse, error)
	CalculateSavings(context.Context, *application.SavingsRequest) (*application.SavingsResponse, error)
	CalculateGoal(context.Context, *application.GoalRequest) (*application.GoalResponse, error)
	Simulate(context.Context, *application.MonteCarloRequest) (*application.MonteCarloResponse, error)
	Compare(context.Context, *application.CompareRequest) (*application.CompareResponse, error)
}

// ServiceDesc 手写的服务描述，方法名与 HTTP 路由一一对应
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProjectionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CalculateMortgage", Handler: unaryHandler("CalculateMortgage", ProjectionServer.CalculateMortgage)},
		{MethodName: "CalculateCredit", Handler: unaryHandler("CalculateCredit", ProjectionServer.CalculateCredit)},
		{MethodName: "CalculateSavings", Handler: unaryHandler("CalculateSavings", ProjectionServer.CalculateSavings)},
		{MethodName: "CalculateGoal", Handler: unaryHandler("CalculateGoal", ProjectionServer.CalculateGoal)},
		{MethodName: "Simulate", Handler: unaryHandler("Simulate", ProjectionServer.Simulate)},
		{MethodName: "Compare", Handler: unaryHandler("Compare", ProjectionServer.Compare)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "finsimulator/v1/projection",
}

func unaryHandler[Req, Resp any](method string, call func(ProjectionServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
		}
		if interceptor == nil {
			return call(srv.(ProjectionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ProjectionServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Server gRPC 服务实现
type Server struct {
	app *application.ProjectionService
}

// NewServer 创建服务并注册到 s
func NewServer(s *grpc.Server, app *application.ProjectionService) *Server {
	srv := &Server{app: app}
	s.RegisterService(&ServiceDesc, srv)
	return srv
}

func (s *Server) CalculateMortgage(ctx context.Context, req *application.MortgageRequest) (*application.MortgageResponse, error) {
	resp, err := s.app.CalculateMortgage(ctx, req)
	return resp, toStatus(err)
}

func (s *Server) CalculateCredit(ctx context.Context, req *application.CreditRequest) (*application.CreditResponse, error) {
	resp, err := s.app.CalculateCredit(ctx, req)
	return resp, toStatus(err)
}

func (s *Server) CalculateSavings(ctx context.Context, req *application.SavingsRequest) (*application.SavingsResponse, error) {
	resp, err := s.app.CalculateSavings(ctx, req)
	return resp, toStatus(err)
}

func (s *Server) CalculateGoal(ctx context.Context, req *application.GoalRequest) (*application.GoalResponse, error) {
	resp, err := s.app.CalculateGoal(ctx, req)
	return resp, toStatus(err)
}

func (s *Server) Simulate(ctx context.Context, req *application.MonteCarloRequest) (*application.MonteCarloResponse, error) {
	resp, err := s.app.Simulate(ctx, req)
	return resp, toStatus(err)
}

func (s *Server) Compare(ctx context.Context, req *application.CompareRequest) (*application.CompareResponse, error) {
	resp, err := s.app.Compare(ctx, req)
	return resp, toStatus(err)
}

// toStatus 将用例错误映射为 gRPC 状态
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case application.IsInvalidInput(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
