package middleware

import (
	"strconv"
	"time"

	"charity_marketplace_backend/internal/platform/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency. Routes are labelled by their
// pattern so path parameters do not explode the label set.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
