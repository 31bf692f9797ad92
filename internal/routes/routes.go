package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"commute_tracker/internal/middleware"
)

// SetupRouter wires every handler group onto one engine.
func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())
	r.Use(middleware.CountRequests())

	AuthRoutes(r)
	ActionRoutes(r)
	DashboardRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
