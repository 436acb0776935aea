package server

import (
	"context"
	"net/http"

	"log/slog"

	"gamelib-service/internal/analytics"
	"gamelib-service/internal/app/library"
	"gamelib-service/internal/config"
	"gamelib-service/internal/domain"
	"gamelib-service/internal/enricher"
	"gamelib-service/internal/feed"
	"gamelib-service/internal/http/handlers"
	"gamelib-service/internal/http/middleware"
	"gamelib-service/internal/logging"
	"gamelib-service/internal/metrics"
	"gamelib-service/internal/snapshots"
)

var metricsSetup = metrics.Setup

// Server wires the library service, analytics API, artwork enricher and
// telemetry into a runnable process.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	svc           *library.Service
	feed          *feed.Hub
	enricher      Enricher
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
	storeClose    func() error
	providerClose func()
}

// New constructs a fully wired server from config.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsStop := buildMetrics(cfg, logger)

	libStore, storeClose, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	hub := feed.NewHub(logger)
	writer := snapshots.NewWriter(cfg.Storage.DataDir, cfg.Backups.RetentionDays)
	saver := snapshots.NewSaver(storeReader{store: libStore}, writer, logger)
	svc := library.NewService(libStore, library.Notifiers{saver, hub}, nil)

	provider, providerClose := buildProvider(cfg, logger)
	var enrich Enricher
	var statusFn func() enricher.Status
	if provider != nil {
		loop := enricher.New(provider, svc, logger, recorder, cfg.EnrichInterval)
		enrich = loop
		statusFn = loop.Status
	}

	handler := handlers.NewHandler(svc, analytics.DefaultConfig(), logger, statusFn)
	var admin *handlers.AdminHandler
	if cfg.Backups.AdminTokenHash != "" {
		fsStore := snapshots.NewFSStore(cfg.Storage.DataDir)
		admin = handlers.NewAdminHandler(svc, saver, fsStore, cfg.Backups.AdminTokenHash, logger)
	}
	router := handlers.NewRouter(handler, admin, hub)
	wrapped := middleware.LoggingMiddleware(logger, recorder, router)

	httpSrv := netHTTPServer{srv: &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		svc:           svc,
		feed:          hub,
		enricher:      enrich,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsStop,
		storeClose:    storeClose,
		providerClose: providerClose,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *library.Service, httpSrv httpServer, enrich Enricher) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		svc:        svc,
		httpServer: httpSrv,
		enricher:   enrich,
	}
}

// storeReader adapts a library.Store to the snapshot saver's reader, so the
// saver can read without going back through the service it is notified by.
type storeReader struct {
	store library.Store
}

func (r storeReader) Games(ctx context.Context) ([]domain.Game, error) {
	return r.store.ListGames(ctx)
}

// Run starts the enricher and HTTP server, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.enricher != nil {
		s.enricher.Start(ctx)
	}

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}
	if s.enricher != nil {
		if err := s.enricher.Stop(shutdownCtx); err != nil {
			logging.Error(s.logger, "failed to stop enricher", err)
		}
	}
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}
	if s.providerClose != nil {
		s.providerClose()
	}
	if s.storeClose != nil {
		if err := s.storeClose(); err != nil {
			logging.Warn(s.logger, "store close failed", "error", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger) (*metrics.Recorder, httpServer, func(context.Context) error) {
	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}
	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
