// Package api exposes the concierge over HTTP and a websocket command
// channel.
package api

import (
	"log"
	"net/http"
	"sync"

	"concierge/internal/concierge"
	"concierge/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP front end of the concierge. Every call into the
// concierge is serialized through mu.
type Server struct {
	Router    *gin.Engine
	concierge *concierge.Concierge
	mu        sync.Mutex

	metrics     *monitoring.MetricsCollector
	metricsPath string
	jwtSecret   string
	logger      *log.Logger
}

// Option configures a Server
type Option func(*Server)

// WithJWTSecret enables bearer-token auth on /api/v1 and /ws
func WithJWTSecret(secret string) Option {
	return func(s *Server) { s.jwtSecret = secret }
}

// WithMetrics serves the collector's registry at path
func WithMetrics(mc *monitoring.MetricsCollector, path string) Option {
	return func(s *Server) {
		s.metrics = mc
		s.metricsPath = path
	}
}

// WithLogger overrides the logger
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new API server for c
func NewServer(c *concierge.Concierge, opts ...Option) *Server {
	s := &Server{
		Router:      gin.Default(),
		concierge:   c,
		metricsPath: "/metrics",
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Grocery concierge API is running"})
	})

	if s.metrics != nil {
		s.Router.GET(s.metricsPath, gin.WrapH(s.metrics.Handler()))
	}

	protected := s.Router.Group("/")
	if s.jwtSecret != "" {
		protected.Use(AuthMiddleware(s.jwtSecret))
	}

	v1 := protected.Group("/api/v1")
	{
		// Workflows
		v1.GET("/daily-check", s.DailyCheck)
		v1.POST("/plan", s.PlanAndOrder)
		v1.GET("/status", s.SystemStatus)

		// Inventory management
		v1.GET("/inventory", s.GetInventory)
		v1.GET("/inventory/summary", s.GetInventorySummary)
		v1.POST("/inventory", s.AddItem)
		v1.POST("/inventory/remove", s.RemoveItem)

		// Calendar and orders
		v1.GET("/events", s.GetEvents)
		v1.GET("/orders/:id/status", s.GetOrderStatus)
	}

	protected.GET("/ws", s.handleWebSocket)
}

// ServeHTTP makes the server usable as an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
