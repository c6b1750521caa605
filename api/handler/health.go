package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/recipeparse/models"
)

// Version is reported by /health.
const Version = "0.1.0"

// Health returns a handler for GET /health. engines lists the fetch engines
// in escalation order.
func Health(engines []string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
			Engines: engines,
		})
	}
}
