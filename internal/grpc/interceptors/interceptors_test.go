package interceptors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"swcommons/internal/logging"
)

func TestRecoveryInterceptor(t *testing.T) {
	logging.SetGlobalLogger(logging.NewMultiLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Panic"}

	resp, err := RecoveryInterceptor()(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestLoggingInterceptorPropagatesRequestID(t *testing.T) {
	logging.SetGlobalLogger(logging.NewMultiLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Echo"}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "req-42"))

	var seen string
	resp, err := LoggingInterceptor()(ctx, "in", info, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = logging.RequestIDFromContext(ctx)
		return req, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "in", resp)
	assert.Equal(t, "req-42", seen)

	_, err = LoggingInterceptor()(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("plain")
	})
	assert.Equal(t, codes.Unknown, status.Code(err))
	assert.Equal(t, codes.Internal, statusCode(err))
}
