package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/recipeparse/metrics"
)

// Metrics records request count, latency and in-flight gauge per route.
// Unmatched paths share one label value to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted(c.Request.Method)
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		done(path, strconv.Itoa(c.Writer.Status()))
	}
}
