package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/stylesheet/internal/api/http"
	"github.com/GriffinCanCode/stylesheet/internal/api/middleware"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/config"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/logging"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/stylesheet/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/stylesheet/internal/providers/stylesdata"
	"github.com/GriffinCanCode/stylesheet/internal/styles"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return NewServerWithLogger(cfg, logger)
}

// NewServerWithLogger creates a server around an existing logger
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Initializing stylesheet server",
		zap.String("port", cfg.Server.Port),
		zap.String("styles_path", cfg.Server.StylesPath),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("stylesheet", logger.Logger)

	fetcher, upstream := newFetcher(cfg, logger, metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig().WithOrigins(cfg.CORS.AllowOrigins)))

	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
		logger.Info("Rate limiting enabled",
			zap.Int("rps", rl.RequestsPerSecond),
			zap.Int("burst", rl.Burst),
		)
	}

	stylesHandler := apihttp.NewStylesHandler(fetcher, logger, metrics)
	healthHandler := apihttp.NewHealthHandler(upstream)

	router.GET(cfg.Server.StylesPath, stylesHandler.Generate)
	router.HEAD(cfg.Server.StylesPath, stylesHandler.Generate)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	s := &Server{
		router:  router,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}
	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: s.Handler(),
	}

	return s, nil
}

// newFetcher picks the style-data source: the GraphQL upstream when
// configured, a local tokens file otherwise, or nothing at all.
func newFetcher(cfg *config.Config, logger *logging.Logger, metrics *monitoring.Metrics) (styles.Fetcher, func() string) {
	switch {
	case cfg.Upstream.URL != "":
		breaker := stylesdata.NewBreaker(func(from, to resilience.State) {
			metrics.SetBreakerState(int(to))
			logger.Warn("style-data breaker changed state",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		})
		client := stylesdata.NewClient(stylesdata.Options{
			Endpoint: cfg.Upstream.URL,
			Token:    cfg.Upstream.Token,
			Timeout:  cfg.Upstream.Timeout,
			RPS:      cfg.Upstream.RPS,
			Breaker:  breaker,
		})
		logger.Info("Using style-data service", zap.String("url", cfg.Upstream.URL))
		return client, func() string { return client.BreakerState().String() }

	case cfg.Upstream.TokensFile != "":
		logger.Info("Using local tokens file", zap.String("path", cfg.Upstream.TokensFile))
		return stylesdata.NewFileSource(cfg.Upstream.TokensFile), nil

	default:
		logger.Warn("No style-data source configured, serving empty stylesheet")
		return styles.FetcherFunc(func(context.Context) (*styles.ColorTokenMapping, error) {
			return nil, nil
		}), nil
	}
}

// Handler returns the compressed root handler
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the tracer and logger
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	s.tracer.Close()
	_ = s.logger.Sync()

	if err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server within the configured timeout
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}
