package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/simaogato/stockfolio-backend/internal/adapter/httpapi"
	"github.com/simaogato/stockfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stockfolio-backend/internal/usecase/marketdata"
	"github.com/simaogato/stockfolio-backend/internal/usecase/performance"
	"github.com/simaogato/stockfolio-backend/internal/usecase/snapshotjob"
	"github.com/simaogato/stockfolio-backend/internal/usecase/trading"
)

const (
	defaultAPIToken = "dev-token"
	defaultHTTPAddr = ":8080"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := newLogger(envOr("LOG_LEVEL", "info"))

	// 1. Setup Database
	db, err := postgres.NewDB(databaseConnString())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// 2. Initialize Repositories (Postgres)
	portfolioRepo := postgres.NewPortfolioRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	priceRepo := postgres.NewPriceRepository(db)

	// 3. Initialize Services (Use Cases)
	tradingService := trading.NewTradingService(portfolioRepo, ledgerRepo)
	performanceService := performance.NewPerformanceService(portfolioRepo, snapshotRepo)
	marketDataService := marketdata.NewMarketDataService(priceRepo)
	snapshotJobService := snapshotjob.NewSnapshotJobService(
		portfolioRepo, ledgerRepo, snapshotRepo, priceRepo,
		logger.With().Str("component", "snapshotjob").Logger(),
	)

	// 4. Start HTTP Server
	server := httpapi.NewServer(
		httpapi.ServerConfig{
			Addr:         envOr("HTTP_ADDR", defaultHTTPAddr),
			APIToken:     envOr("API_TOKEN", defaultAPIToken),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		tradingService,
		performanceService,
		marketDataService,
		snapshotJobService,
		logger.With().Str("component", "http").Logger(),
	)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	waitForShutdown(server, logger)
}

// newLogger builds the process-wide structured logger.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// databaseConnString assembles the Postgres connection string from the
// environment, falling back to per-field variables (Docker friendly).
func databaseConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_PORT", "5432"),
		envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"),
		envOr("DB_NAME", "stockfolio"),
	)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down
// the server
func waitForShutdown(server *httpapi.Server, logger zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("HTTP server stopped")
}
