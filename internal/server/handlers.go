package server

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/neosentinel/neo-sentinel/internal/impact"
	"github.com/neosentinel/neo-sentinel/pkg/models"
)

const streamKeepAlive = 15 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleListAlerts serves the cache-backed alert listing.
func (s *Server) handleListAlerts(c *gin.Context) {
	alerts, err := s.cache.Get(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to load alerts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alerts"})
		return
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

// handleCalculateImpact assesses the impact energy of a telemetry reading.
func (s *Server) handleCalculateImpact(c *gin.Context) {
	var req impact.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid impact request"})
		return
	}
	c.JSON(http.StatusOK, impact.Calculate(req))
}

// handleAlertStream serves alerts as a server-sent-event stream. The stream
// starts at subscription time and ends only when the client disconnects or the
// process shuts down.
func (s *Server) handleAlertStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sub := s.hub.Subscribe(c.Request.Context())
	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	// Complete the handshake before the first event so clients that wait for
	// response headers (EventSource) attach immediately.
	c.Writer.WriteString(": connected\n\n")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case alert, ok := <-sub:
			if !ok {
				return false
			}
			c.SSEvent("message", alert)
			return true
		case <-keepAlive.C:
			// Comment line keeps idle proxies from closing the connection.
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return false
			}
			return true
		}
	})
}

// handleAlertSocket serves the same live alerts over a websocket, one JSON
// text message per alert.
func (s *Server) handleAlertSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe(c.Request.Context())

	// Drain client frames so close messages are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case alert, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteJSON(alert); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
