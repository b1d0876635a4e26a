package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopsmart/api/metrics"
	"shopsmart/api/middleware"
)

// View is a group of routes mounted under /api.
type View interface {
	Register(rg *gin.RouterGroup)
}

// NewRouter assembles the engine with the shared middleware stack and /metrics.
func NewRouter(logger *slog.Logger, allowedOrigin string, views ...View) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORSMiddleware(allowedOrigin))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", HealthCheck)

	api := r.Group("/api")
	for _, v := range views {
		v.Register(api)
	}
	return r
}
