package server

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/cockroachdb/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	httpserver "github.com/Meesho/BharatMLStack/price-inferflow/internal/server/http"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/configs"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/middleware"
)

// ServiceName is the name the gRPC health service reports for the prediction API.
const ServiceName = "price-inferflow"

func InitServer(predictor httpserver.Predictor, configs *configs.AppConfigs) {
	address := fmt.Sprintf("%d", configs.Configs.ApplicationPort)
	listener, err := net.Listen("tcp", ":"+address)
	if err != nil {
		logger.Panic("Failed to start price-inferflow application!", err)
	}

	// create the cmux object that will multiplex 2 protocols on same port
	mux := cmux.New(listener)
	// match gRPC requests, otherwise regular HTTP requests
	grpcListener := mux.Match(cmux.HTTP2HeaderField("content-type", "application/grpc"))
	httpListener := mux.Match(cmux.Any())

	grpcServer, healthServer := NewGRPCServer()

	httpserver.Init(predictor, configs)
	httpServer := &http.Server{
		Handler: httpserver.Instance(),
	}

	// Collect on this channel,the exits of each protocol's .Serve() call
	eps := make(chan error, 2)
	go func() { eps <- grpcServer.Serve(grpcListener) }()
	go func() { eps <- httpServer.Serve(httpListener) }()

	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	logger.Info(fmt.Sprintf("price-inferflow started at port on %s", address))
	handleErrors(mux, eps)
}

// NewGRPCServer returns a server with the health and reflection services registered.
// Health reports NOT_SERVING until the caller marks it otherwise.
func NewGRPCServer() (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(middleware.RecoveryInterceptor, middleware.WrappedGRPCMiddleware),
	)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

func handleErrors(mux cmux.CMux, eps chan error) {
	// code handles exit errors of the muxes
	err := mux.Serve()
	var failed bool
	if err != nil {
		logger.Error("cmux serve error", err)
		failed = true
	}
	var i int
	for err := range eps {
		if err != nil {
			logger.Error("protocol serve error", err)
			failed = true
		}
		i++
		if i == cap(eps) {
			close(eps)
			break
		}
	}
	if failed {
		os.Exit(1)
	}
}
