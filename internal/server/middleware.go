package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiKeyMiddleware enforces the static X-API-Key gate. The live-stream and
// health-check paths are registered outside the gated group and never pass
// through here.
func (s *Server) apiKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" || key != s.apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Valid API key required. Use header: X-API-Key",
			})
			return
		}
		c.Next()
	}
}
