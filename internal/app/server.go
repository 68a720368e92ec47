// File: internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"charity_marketplace_backend/internal/auth"
	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/donation"
	"charity_marketplace_backend/internal/filestorage"
	"charity_marketplace_backend/internal/jobs"
	"charity_marketplace_backend/internal/middleware"
	"charity_marketplace_backend/internal/notification"
	"charity_marketplace_backend/internal/platform/metrics"
	"charity_marketplace_backend/internal/product"
	"charity_marketplace_backend/internal/shared"
	"charity_marketplace_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rateLimiterEvictTTL is how long an idle client keeps its limiter state.
const rateLimiterEvictTTL = 10 * time.Minute

// Models lists every persisted model, in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&product.Product{},
		&donation.Donation{},
		&notification.Notification{},
	}
}

// NewMetrics returns the collector set, or nil when METRICS_ENABLED is false.
// Every recorder is a no-op on a nil *metrics.Metrics.
func NewMetrics(cfg *config.Config) *metrics.Metrics {
	if !cfg.MetricsEnabled {
		return nil
	}
	return metrics.New()
}

// NewAuthRateLimiter builds the per-IP limiter guarding the credential endpoints.
func NewAuthRateLimiter(cfg *config.Config) *middleware.IPRateLimiter {
	return middleware.NewIPRateLimiter(cfg.AuthRateLimitPerMinute, cfg.AuthRateLimitBurst, rateLimiterEvictTTL)
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	productExpiryJob *jobs.ProductExpiryJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	verifier shared.TokenVerifier,
	rateLimiter *middleware.IPRateLimiter,
	images *filestorage.FileStorageService,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	productHandler *product.Handler,
	donationHandler *donation.Handler,
	notificationHandler *notification.Handler,
	productExpiryJob *jobs.ProductExpiryJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	authMW := middleware.Authenticate(verifier, m, logger)
	orgMW := middleware.RequireOrganization(m, logger)
	rateLimitMW := middleware.RateLimit(rateLimiter, logger.Named("RateLimit"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Charity Marketplace API is healthy!"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
	router.Static(filestorage.PublicPathPrefix, images.StoragePath())

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1, authMW, rateLimitMW)
	userHandler.RegisterRoutes(v1)
	productHandler.RegisterRoutes(v1, authMW, orgMW)
	donationHandler.RegisterRoutes(v1, authMW, orgMW)
	notificationHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		logger:           logger,
		productExpiryJob: productExpiryJob,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the expiry job and blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if s.productExpiryJob != nil {
		if err := s.productExpiryJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start product expiry job", zap.Error(err))
		}
	} else {
		s.logger.Info("Product expiry job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops the expiry job and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.productExpiryJob != nil {
		s.productExpiryJob.Stop(s.cfg.ServerTimeout)
	}
	return s.httpServer.Shutdown(ctx)
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsCfg.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// Credentials cannot be combined with a wildcard origin.
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	return corsCfg
}
