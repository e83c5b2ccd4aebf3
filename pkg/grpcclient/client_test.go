package grpcclient

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/wyfcoding/finsimulator/pkg/logger"
)

// flakyInterceptor 前 failures 次调用返回 Unavailable，并记录收到的请求 ID
type flakyInterceptor struct {
	failures  int32
	calls     atomic.Int32
	requestID atomic.Value
}

func (f *flakyInterceptor) intercept(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get("x-request-id"); len(v) > 0 {
			f.requestID.Store(v[0])
		}
	}
	if f.calls.Add(1) <= f.failures {
		return nil, status.Error(codes.Unavailable, "warming up")
	}
	return handler(ctx, req)
}

func dial(t *testing.T, f *flakyInterceptor, maxRetries int) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(f.intercept))
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(s, hs)
	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	conn, err := NewClient(ClientConfig{
		Target:     "passthrough:///bufnet",
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	}, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewClient_PropagatesRequestID(t *testing.T) {
	f := &flakyInterceptor{}
	conn := dial(t, f, 0)

	ctx := logger.WithRequestID(context.Background(), "req-cli")
	_, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, "req-cli", f.requestID.Load())
}

func TestNewClient_RetriesUnavailable(t *testing.T) {
	f := &flakyInterceptor{failures: 2}
	conn := dial(t, f, 2)

	_, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(3), f.calls.Load())
	assert.NotEmpty(t, f.requestID.Load())
}

func TestNewClient_GivesUpAfterMaxRetries(t *testing.T) {
	f := &flakyInterceptor{failures: 5}
	conn := dial(t, f, 1)

	_, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.Equal(t, int32(2), f.calls.Load())
}
