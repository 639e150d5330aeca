package dashboard

import (
	"time"

	"github.com/gin-gonic/gin"

	"perfume-dashboard/metrics"
	"perfume-dashboard/utils"
)

// requestLogger replaces gin's default logger with the application logger
// and records request metrics labelled by route pattern.
func requestLogger(logger *utils.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		took := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(route, c.Request.Method, status, took)

		switch {
		case status >= 500:
			logger.Error("[http] %s %s %d %v", c.Request.Method, c.Request.URL.Path, status, took.Round(time.Microsecond))
		case status >= 400:
			logger.Warn("[http] %s %s %d %v", c.Request.Method, c.Request.URL.Path, status, took.Round(time.Microsecond))
		default:
			logger.Debug("[http] %s %s %d %v", c.Request.Method, c.Request.URL.Path, status, took.Round(time.Microsecond))
		}
	}
}
