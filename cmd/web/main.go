package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", handlers.Version,
		"csv_file", cfg.Data.CSVFile,
		"addr", cfg.Address(),
	)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	dashboard, err := loadDashboard(ctx, cfg.Data, logger)
	if err != nil {
		return err
	}

	handler, err := newHandler(cfg, dashboard, logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server.NewGracefulServer(httpServer, logger, cfg.Server).ListenAndServe(ctx)
}

// loadDashboard reads the order CSV once. Any failure is fatal for the
// process.
func loadDashboard(ctx context.Context, cfg config.DataConfig, logger *slog.Logger) (*services.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	dashboard, err := services.LoadDashboard(ctx, cfg.CSVFile, services.LoadOptions{Encoding: cfg.Encoding}, logger)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.CSVFile, err)
	}
	return dashboard, nil
}

func newHandler(cfg *config.Config, dashboard *services.Dashboard, logger *slog.Logger) (http.Handler, error) {
	srv, err := server.NewServer(dashboard, cfg.UI, logger)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	return appMiddleware(cfg, logger)(srv), nil
}

func appMiddleware(cfg *config.Config, logger *slog.Logger) middleware.Middleware {
	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	// RequestID runs first so a recovered panic is logged with its id.
	return middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)
}
