package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/logger"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/metrics"
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.RecordHTTPRequest(
			c.Request.Method,
			c.FullPath(),
			status,
			duration,
		)
	}
}

func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		logger.Infof("%s %s -> %d (%dms) ip=%s",
			c.Request.Method, path, c.Writer.Status(), latency.Milliseconds(), c.ClientIP())
	}
}
