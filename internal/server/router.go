// Package server exposes the engine over HTTP with gin.
package server

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AKakshat1729/AGI-119/internal/clinical"
	"github.com/AKakshat1729/AGI-119/internal/config"
	"github.com/AKakshat1729/AGI-119/internal/insight"
	"github.com/AKakshat1729/AGI-119/internal/logger"
)

// RouterConfig carries everything the routes need. Insights may be nil.
type RouterConfig struct {
	Engine   *clinical.Engine
	Insights *insight.Service
	Log      *logger.Logger
	Server   config.ServerConfig
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(recovery(cfg.Log), requestLogger(cfg.Log))

	if len(cfg.Server.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	}

	h := &handlers{engine: cfg.Engine, insights: cfg.Insights, log: cfg.Log}

	router.GET("/healthcheck", healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		writes := api.Group("")
		if rl := cfg.Server.RateLimit; rl.Enabled {
			writes.Use(newClientLimiter(rl.RequestsPerMinute, rl.Burst, cfg.Log).middleware())
		}
		writes.POST("/sessions", h.ingestSession)
		writes.POST("/safety/check", h.checkSafety)

		users := api.Group("/users/:userID")
		users.GET("/dashboard", h.dashboard)
		users.GET("/medical-report", h.medicalReport)
		users.GET("/risk-alerts", h.riskAlerts)
		users.GET("/memory-context", h.memoryContext)
		users.GET("/insights", h.userInsights)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
