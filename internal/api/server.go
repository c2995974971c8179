// Package api serves the symptom analyzer over HTTP and websocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/catalog"
	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// maxBodyBytes caps analyze request bodies.
const maxBodyBytes = 64 << 10

// Server represents the HTTP server
type Server struct {
	config   domain.ServerConfig
	logger   *logrus.Logger
	analyzer domain.SymptomAnalyzer
	catalog  *catalog.Catalog
	limiter  *RateLimiter
	upgrader websocket.Upgrader
	router   *gin.Engine
	server   *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg domain.ServerConfig, logger *logrus.Logger, analyzer domain.SymptomAnalyzer, c *catalog.Catalog) (*Server, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		config:   cfg,
		logger:   logger,
		analyzer: analyzer,
		catalog:  c,
		router:   gin.New(),
	}

	if cfg.RateLimit.Enabled {
		limiter, err := NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		s.limiter = limiter
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	s.router.Use(gin.Recovery())
	s.router.Use(middleware.CorrelationID())
	s.router.Use(middleware.RequestLogger(logger))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(corsMiddleware(cfg.AllowedOrigins))

	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("HTTP server shutting down")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	if s.limiter != nil {
		v1.Use(s.limiter.Middleware())
	}
	{
		v1.GET("/vocabulary", s.handleVocabulary)
		v1.GET("/conditions/:name", s.handleConditionInfo)
		v1.POST("/analyze", middleware.RequestTimeout(s.config.RequestTimeout), s.handleAnalyze)
		v1.GET("/chat", s.handleChat)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.CorrelationHeader},
		ExposeHeaders: []string{"Content-Length", middleware.CorrelationHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return len(s.config.AllowedOrigins) == 0
}

func (s *Server) abortWithError(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, domain.NewAPIError(code, message, details, c.GetString(middleware.CorrelationKey)))
}
