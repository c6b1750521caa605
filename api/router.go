package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/use-agent/recipeparse/api/handler"
	"github.com/use-agent/recipeparse/api/middleware"
	"github.com/use-agent/recipeparse/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Metrics → Logger
//
// /parse and /extract are the same endpoint under two names.
func NewRouter(ex handler.Extractor, engines []string, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(gin.Logger())

	r.GET("/health", handler.Health(engines, startTime))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	extract := handler.Extract(ex)
	r.GET("/parse", extract)
	r.GET("/extract", extract)

	return r
}
