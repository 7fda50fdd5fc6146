// Command aggregator запускает HTTP и gRPC API агрегатора исследований.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Totarae/ResearchAggregator/internal/auth"
	"github.com/Totarae/ResearchAggregator/internal/config"
	"github.com/Totarae/ResearchAggregator/internal/events"
	grpcv2 "github.com/Totarae/ResearchAggregator/internal/grpc/v2"
	"github.com/Totarae/ResearchAggregator/internal/handlers"
	"github.com/Totarae/ResearchAggregator/internal/provider"
	"github.com/Totarae/ResearchAggregator/internal/router"
	"github.com/Totarae/ResearchAggregator/internal/service"
	"github.com/Totarae/ResearchAggregator/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Инициализация конфигурации
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Debug)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(debug bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var publisher interface {
		service.EventPublisher
		Close() error
	} = events.Nop{}
	if cfg.NATSURL != "" {
		p, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			return err
		}
		publisher = p
	}
	defer publisher.Close()

	providers := provider.NewSet(cfg, provider.NewHTTPClient(cfg), logger)
	svc := service.NewResearchService(providers, store, publisher, logger, cfg.Policy())

	handler := handlers.NewHandler(svc, auth.New(cfg.AuthSecret), logger, cfg.Mode, cfg.Configured())
	httpServer := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router.NewRouter(handler, logger, cfg.TrustedSubnet),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var grpcListener net.Listener
	if cfg.GRPCAddress != "" {
		grpcListener, err = net.Listen("tcp", cfg.GRPCAddress)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server started",
			zap.String("address", cfg.ServerAddress),
			zap.Bool("https", cfg.EnableHTTPS),
			zap.String("mode", cfg.Mode),
			zap.String("providers", providers.Mode),
			zap.String("policy", cfg.AggregatePolicy),
		)
		var err error
		if cfg.EnableHTTPS {
			err = httpServer.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = httpServer.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if grpcListener != nil {
		grpcServer := grpcv2.NewServer(grpcv2.NewGRPCServer(svc, cfg.Mode, logger))
		g.Go(func() error {
			logger.Info("gRPC server started", zap.String("address", cfg.GRPCAddress))
			return grpcServer.Serve(grpcListener)
		})
		g.Go(func() error {
			<-gctx.Done()
			grpcServer.GracefulStop()
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
