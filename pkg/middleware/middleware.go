package middleware

import (
	"context"
	"encoding/json"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/metrics"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/set"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	grpcRequestLatency = "price_inferflow.grpc.request.latency"
	grpcRequestTotal   = "price_inferflow.grpc.request.total"
)

var (
	reqHeadersToLog = set.NewThreadSafeSet()
)

// InitMiddleware sets the request headers both the gRPC and HTTP loggers include.
func InitMiddleware(headersToLog ...string) {
	reqHeadersToLog.Clear()
	reqHeadersToLog.Add(headersToLog...)
}

func WrappedGRPCMiddleware(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler) (resp interface{}, err error) {
	startTime := time.Now()

	md, _ := metadata.FromIncomingContext(ctx)
	method := info.FullMethod
	requestHeaders, _ := json.Marshal(filterGRPCHeaders(md))

	resp, err = handler(ctx, req)
	statusCode := codes.OK
	if err != nil {
		statusCode = status.Code(err)
	}
	responseTime := time.Since(startTime)

	logVariables := []string{
		method,
		strconv.Itoa(int(statusCode)),
		responseTime.String(),
		string(requestHeaders),
	}
	if err != nil {
		logger.Error(strings.Join(logVariables, " | "), err)
	} else {
		logger.Debug(strings.Join(logVariables, " | "))
	}
	telemetryMiddleware(info, responseTime, statusCode)
	return resp, err
}

func RecoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("service", info.FullMethod).
				Interface("request", req).
				Msgf("Recovered in recovery interceptor with err: %v, stack: %s", r, string(debug.Stack()))
			err = status.Errorf(codes.Internal, "Internal server error")
		}
	}()
	return handler(ctx, req)
}

func filterGRPCHeaders(md metadata.MD) map[string][]string {
	filteredHeaders := make(map[string][]string)
	for k, v := range md {
		if reqHeadersToLog.Contains(k) {
			filteredHeaders[k] = v
		}
	}
	return filteredHeaders
}

func telemetryMiddleware(info *grpc.UnaryServerInfo, responseTime time.Duration, statusCode codes.Code) {
	tags := []string{
		metrics.Tag(metrics.TagPath, info.FullMethod),
		metrics.Tag(metrics.TagStatus, strconv.Itoa(int(statusCode))),
	}
	metrics.Timing(grpcRequestLatency, responseTime, tags)
	metrics.Count(grpcRequestTotal, 1, tags)
}
