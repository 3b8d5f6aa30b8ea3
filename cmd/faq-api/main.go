package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/officeplus/faq-api/config"
	"github.com/officeplus/faq-api/internal/bootstrap"
	httpx "github.com/officeplus/faq-api/internal/http"
)

const (
	serviceName    = "faq-api"
	serviceVersion = "1.0.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
	logger := bootstrap.InitLogger(cfg.Observability.SlogLevel())

	if err := run(ctx, logger, &cfg); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		stop()
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) error {
	mode := cfg.DeploymentMode()
	logger.InfoContext(ctx, "starting faq service",
		"mode", mode.String(),
		"local", mode.IsLocal(),
		"addr", cfg.HTTP.Addr(),
		"api_prefix", cfg.HTTP.APIPrefix,
		"db", cfg.Postgres.MaskedConnString(),
		"redis_seeds", cfg.Redis.Seeds(),
	)

	pool, err := bootstrap.ConnectDB(ctx, cfg.Postgres, logger)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err = bootstrap.RunMigrations(ctx, pool, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	handle, err := bootstrap.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := handle.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	obs := bootstrap.BuildObservability(logger, cfg.Observability, mode.String())
	if obs.MetricsSink != nil {
		defer func() { _ = obs.MetricsSink.Close() }()
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:    cfg,
		DB:        pool,
		Redis:     handle,
		Refresher: handle,
		Logger:    logger,
	}, obs)
	if err != nil {
		return err
	}

	handler := bootstrap.BuildHTTPHandler(&bootstrap.HTTPServerConfig{
		Config:   cfg,
		Services: services,
		Info:     httpx.ServiceInfo{Name: serviceName, Version: serviceVersion, Status: "running"},
		Logger:   logger,
	})
	server := bootstrap.NewHTTPServer(cfg.HTTP, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bootstrap.ServeHTTP(server, logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		//nolint:contextcheck // shutdown must outlive the cancelled serve context
		return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Config:  cfg.HTTP,
			Logger:  logger,
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.InfoContext(ctx, "faq service stopped")
	return nil
}
