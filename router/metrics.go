package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emiilyxiia/microservices-3/metrics"
)

// Metrics records a counter and latency sample per finished request, labeled by
// route template rather than raw path to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.RecordRequest(c.Request.Method, path,
			strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
