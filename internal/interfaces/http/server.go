// Package http provides the HTTP adapter for the application layer. It is a
// thin layer translating requests into application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seconnect/ice-backend/internal/application/port"
	"github.com/seconnect/ice-backend/internal/application/service"
	"github.com/seconnect/ice-backend/internal/infrastructure/identity"
	"github.com/seconnect/ice-backend/pkg/utils"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// HealthChecker reports backing-store availability for the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Headers carrying the acting user identity, set by the gateway in front of
// this service.
const (
	headerUserEmail      = "X-User-Email"
	headerSimulatedEmail = "X-Simulated-User-Email"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server wired to the given services
func NewServer(
	config ServerConfig,
	statusService service.StatusWorkflowService,
	taskService service.TaskService,
	reportService service.ReportService,
	letterRepo port.SalesLetterVersionRepository,
	health HealthChecker,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		handlers: NewHandlers(statusService, taskService, reportService, letterRepo, health, logger),
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(identityMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// identityMiddleware copies the acting-user headers into the request context
// so downstream recipient resolution can see them. Malformed addresses are
// ignored rather than rejected; resolution falls back to the service
// account.
func identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if email := c.GetHeader(headerUserEmail); email != "" && utils.ValidateEmail(email) == nil {
			ctx = identity.WithUserEmail(ctx, email)
		}
		if email := c.GetHeader(headerSimulatedEmail); email != "" && utils.ValidateEmail(email) == nil {
			ctx = identity.WithSimulatedUserEmail(ctx, email)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")
	{
		api.POST("/sales-letters/status", s.handlers.UpdateStatus)
		api.POST("/sales-letters/notify", s.handlers.Notify)
		api.GET("/sales-letters/:id/versions", s.handlers.ListVersions)

		api.POST("/notifications", s.handlers.EnqueueNotification)

		api.GET("/tasks", s.handlers.ListPendingTasks)
		api.POST("/tasks", s.handlers.CreateTask)
		api.POST("/tasks/complete", s.handlers.CompleteTasks)

		api.GET("/reports/notifications.xlsx", s.handlers.NotificationReport)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
