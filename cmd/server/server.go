package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/creature-import/internal/handlers/importer/v1alpha1"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the creature import gRPC server backed by Redis and the configured catalog.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().Int("port", 50051, "gRPC server port")
	serverCmd.Flags().Duration("session-ttl", 24*time.Hour, "how long an untouched resolution session survives")
	serverCmd.Flags().Duration("index-refresh", 15*time.Minute, "rescan the catalog index after this long (0 keeps scans until invalidated)")
}

func runServer(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.close()
	svc.catalog.watchInvalidations(ctx)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	logFunc := grpc_logging.LoggerFunc(interceptorLogger(logger))
	recoveryOpt := grpc_recovery.WithRecoveryHandlerContext(recoverPanic)

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(logFunc),
			grpc_recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(logFunc),
			grpc_recovery.StreamServerInterceptor(recoveryOpt),
		),
	)

	importHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		Importer: svc.importer,
		Workflow: svc.workflow,
	})
	if err != nil {
		return fmt.Errorf("failed to create import handler: %w", err)
	}

	v1alpha1.RegisterImportServiceServer(srv, importHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("gRPC server starting",
			"port", cfg.GRPCPort,
			"catalog", cfg.Catalog,
			"session_ttl", cfg.SessionTTL)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gRPC server")
		healthServer.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			logger.Info("server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// interceptorLogger adapts slog to the middleware logger
func interceptorLogger(l *slog.Logger) func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	return func(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(level), msg, fields...)
	}
}

func recoverPanic(ctx context.Context, p any) error {
	logger.ErrorContext(ctx, "recovered from panic", "panic", p)
	return status.Errorf(codes.Internal, "internal error")
}
