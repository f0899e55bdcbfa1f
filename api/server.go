package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/logging"
	"weather-forecast/metrics"
	"weather-forecast/middleware"
	"weather-forecast/session"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the presentation server: the HTML page, its JSON mirror, and health/metrics
type Server struct {
	session *session.Session
	current datasource.WeatherProvider
	cfg     *datasource.Config
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
	router  *mux.Router
	server  *http.Server
	now     func() time.Time
}

// NewServer creates a new API server. gatherer backs /metrics; nil uses the default registry.
func NewServer(
	sess *session.Session,
	current datasource.WeatherProvider,
	cfg *datasource.Config,
	logger *logging.StructuredLogger,
	m *metrics.Collector,
	gatherer prometheus.Gatherer,
) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	router := mux.NewRouter()
	s := &Server{
		session: sess,
		current: current,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		router:  router,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      time.Duration(cfg.FetchTimeout) + 5*time.Second,
			IdleTimeout:       60 * time.Second,
		},
		now: time.Now,
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.Instrument(logger, m))
	s.RegisterRoutes(router)

	if gatherer == nil {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	} else {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	return s
}

// RegisterRoutes registers the page and API routes
func (s *Server) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/search", s.handleSearchForm).Methods(http.MethodPost)

	router.HandleFunc("/api/state", s.handleGetState).Methods(http.MethodGet)
	router.HandleFunc("/api/input", s.handleSetInput).Methods(http.MethodPost)
	router.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodPost)
	router.HandleFunc("/api/current/{city}", s.handleGetCurrent).Methods(http.MethodGet)
	router.HandleFunc("/api/health", s.handleHealthCheck).Methods(http.MethodGet)
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "[SERVER_START] HTTP server listening", logging.Fields{"address": s.server.Addr})
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
