package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/wyfcoding/finsimulator/internal/projection/application"
	"github.com/wyfcoding/finsimulator/internal/projection/domain"
	"github.com/wyfcoding/finsimulator/internal/projection/infrastructure/messaging"
	grpc_server "github.com/wyfcoding/finsimulator/internal/projection/interfaces/grpc"
	http_server "github.com/wyfcoding/finsimulator/internal/projection/interfaces/http"
	"github.com/wyfcoding/finsimulator/pkg/config"
	"github.com/wyfcoding/finsimulator/pkg/logger"
	"github.com/wyfcoding/finsimulator/pkg/metrics"
	"github.com/wyfcoding/finsimulator/pkg/middleware"
	"github.com/wyfcoding/finsimulator/pkg/mq"
)

const shutdownTimeout = 15 * time.Second

type eventPublisher interface {
	domain.EventPublisher
	Close(ctx context.Context) error
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "configs/finsimulator/config.toml", "path to config file")
	flag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "finsimulator: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// 1. Config
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return err
	}

	// 2. Logger
	if err := logger.Init(cfg.Logger.ToLogger()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	ctx := context.Background()
	logger.Info(ctx, "starting service",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
		"workers", cfg.Simulation.Workers,
	)

	// 3. Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.ServiceName, true)
	}

	// 4. Infrastructure
	publisher, err := newPublisher(cfg.Kafka)
	if err != nil {
		return err
	}

	// 5. Domain & Application
	engineOpts := []domain.EngineOption{domain.WithWorkers(cfg.Simulation.Workers)}
	if cfg.Simulation.Seed != 0 {
		engineOpts = append(engineOpts, domain.WithSeed(cfg.Simulation.Seed))
	}
	appService := application.NewProjectionService(
		domain.NewMonteCarloEngine(engineOpts...),
		publisher,
		m,
		application.ServiceConfig{
			IncludePathsDefault: cfg.Simulation.IncludePathsDefault,
			SimulationTimeout:   cfg.Simulation.TimeoutDuration(),
		},
	)

	// 6. Interfaces
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware.GRPCRecoveryInterceptor(),
		middleware.GRPCLoggingInterceptor(m),
	))
	grpc_server.NewServer(grpcSrv, appService)
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(grpc_server.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	var ready atomic.Bool
	router := http_server.NewRouter(http_server.NewProjectionHandler(appService), http_server.RouterConfig{
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Metrics:     m,
		MetricsPath: cfg.Metrics.Path,
		EnablePprof: cfg.Environment != "prod",
		Ready:       &ready,
	})
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 7. Start
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPC.Addr())
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		logger.Info(ctx, "gRPC server starting", "addr", cfg.GRPC.Addr())
		return grpcSrv.Serve(lis)
	})

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	ready.Store(true)

	// 8. Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(ctx, "shutting down servers...")
		ready.Store(false)
		healthSrv.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http: %w", err))
		}
		grpcSrv.GracefulStop()
		if err := publisher.Close(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		logger.Error(ctx, "server exited with error", "error", err)
		return err
	}
	logger.Info(ctx, "server stopped")
	return nil
}

func newPublisher(cfg config.KafkaConfig) (eventPublisher, error) {
	if !cfg.Enabled {
		return messaging.NopEventPublisher{}, nil
	}
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Brokers,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	})
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return messaging.NewKafkaEventPublisher(producer, cfg.Topic, 0), nil
}
