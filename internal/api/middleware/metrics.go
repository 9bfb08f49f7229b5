package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

// Metrics records request counts and latency per matched route. Unmatched
// paths share one label so scanners cannot blow up cardinality.
func Metrics(recorder *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
