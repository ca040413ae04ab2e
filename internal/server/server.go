// Package server exposes mission control over HTTP: the gated alert listing,
// the public live-alert streams, health, and metrics.
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/mission"
)

// Server wires mission control collaborators into the HTTP surface.
type Server struct {
	logger *zap.Logger
	cache  mission.AlertCache
	hub    *mission.Hub
	apiKey string
}

// NewServer creates the HTTP server.
func NewServer(logger *zap.Logger, cache mission.AlertCache, hub *mission.Hub, apiKey string) *Server {
	return &Server{
		logger: logger,
		cache:  cache,
		hub:    hub,
		apiKey: apiKey,
	}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(ginzap.Ginzap(s.logger, "2006-01-02T15:04:05Z07:00", true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws/alerts", s.handleAlertSocket)

	api := router.Group("/api")

	// The SSE stream is exempt from the key gate so browsers can subscribe
	// without custom headers.
	api.GET("/mission/alerts/stream", s.handleAlertStream)

	gated := api.Group("", s.apiKeyMiddleware())
	gated.GET("/mission/alerts", s.handleListAlerts)
	gated.POST("/impact/calculate", s.handleCalculateImpact)

	return router
}
