package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/simaogato/stockfolio-backend/internal/usecase/marketdata"
	"github.com/simaogato/stockfolio-backend/internal/usecase/performance"
	"github.com/simaogato/stockfolio-backend/internal/usecase/snapshotjob"
	"github.com/simaogato/stockfolio-backend/internal/usecase/trading"
)

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Addr         string
	APIToken     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server exposes the usecase services over HTTP/JSON.
type Server struct {
	router      *mux.Router
	httpServer  *http.Server
	trading     *trading.TradingService
	performance *performance.PerformanceService
	marketData  *marketdata.MarketDataService
	snapshotJob *snapshotjob.SnapshotJobService
	logger      zerolog.Logger
}

// NewServer creates a new API server instance.
func NewServer(
	config ServerConfig,
	tradingService *trading.TradingService,
	performanceService *performance.PerformanceService,
	marketDataService *marketdata.MarketDataService,
	snapshotJobService *snapshotjob.SnapshotJobService,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		trading:     tradingService,
		performance: performanceService,
		marketData:  marketDataService,
		snapshotJob: snapshotJobService,
		logger:      logger,
	}

	s.router.Use(LoggingMiddleware(logger))
	s.router.Use(RecoveryMiddleware(logger))
	s.setupRoutes(config.APIToken)

	s.httpServer = &http.Server{
		Addr:         config.Addr,
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// setupRoutes configures all API routes. Everything under /api requires
// the bearer token; /health does not.
func (s *Server) setupRoutes(apiToken string) {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(AuthMiddleware(apiToken))

	api.HandleFunc("/portfolios", s.handleCreatePortfolio).Methods("POST")
	api.HandleFunc("/portfolios/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/portfolios/{id}/deposits", s.handleDeposit).Methods("POST")
	api.HandleFunc("/portfolios/{id}/withdrawals", s.handleWithdraw).Methods("POST")
	api.HandleFunc("/portfolios/{id}/buys", s.handleBuy).Methods("POST")
	api.HandleFunc("/portfolios/{id}/sells", s.handleSell).Methods("POST")
	api.HandleFunc("/portfolios/{id}/snapshots", s.handleGetSnapshots).Methods("GET")
	api.HandleFunc("/portfolios/{id}/snapshots/backfill", s.handleBackfill).Methods("POST")
	api.HandleFunc("/portfolios/{id}/metrics", s.handleGetMetrics).Methods("GET")
	api.HandleFunc("/prices", s.handleRecordPrice).Methods("POST")
	api.HandleFunc("/jobs/daily-snapshot", s.handleDailySnapshot).Methods("POST")
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
