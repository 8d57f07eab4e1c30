package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ddx-510/opencode-pixel-office/pkg/logger"
)

// loggingMiddleware logs HTTP requests through the shared leveled logger.
func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		if raw != "" {
			path = path + "?" + raw
		}
		logger.Debugf("[%s] %s - %d (%v)", c.Request.Method, path, statusCode, latency)
	}
}
