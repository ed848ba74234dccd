package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carrental/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route so that
// arbitrary paths do not create new series.
const unmatchedRoute = "unmatched"

// Metrics records request count and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metrics.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
