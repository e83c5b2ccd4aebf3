package grpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
)

// Client ProjectionService 客户端，所有调用使用 JSON 子类型
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient 创建客户端
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CalculateMortgage(ctx context.Context, in *application.MortgageRequest, opts ...grpc.CallOption) (*application.MortgageResponse, error) {
	return invoke[application.MortgageRequest, application.MortgageResponse](ctx, c.cc, "CalculateMortgage", in, opts...)
}

func (c *Client) CalculateCredit(ctx context.Context, in *application.CreditRequest, opts ...grpc.CallOption) (*application.CreditResponse, error) {
	return invoke[application.CreditRequest, application.CreditResponse](ctx, c.cc, "CalculateCredit", in, opts...)
}

func (c *Client) CalculateSavings(ctx context.Context, in *application.SavingsRequest, opts ...grpc.CallOption) (*application.SavingsResponse, error) {
	return invoke[application.SavingsRequest, application.SavingsResponse](ctx, c.cc, "CalculateSavings", in, opts...)
}

func (c *Client) CalculateGoal(ctx context.Context, in *application.GoalRequest, opts ...grpc.CallOption) (*application.GoalResponse, error) {
	return invoke[application.GoalRequest, application.GoalResponse](ctx, c.cc, "CalculateGoal", in, opts...)
}

func (c *Client) Simulate(ctx context.Context, in *application.MonteCarloRequest, opts ...grpc.CallOption) (*application.MonteCarloResponse, error) {
	return invoke[application.MonteCarloRequest, application.MonteCarloResponse](ctx, c.cc, "Simulate", in, opts...)
}

func (c *Client) Compare(ctx context.Context, in *application.CompareRequest, opts ...grpc.CallOption) (*application.CompareResponse, error) {
	return invoke[application.CompareRequest, application.CompareResponse](ctx, c.cc, "Compare", in, opts...)
}
