package routes

import (
	"github.com/gin-gonic/gin"

	"commute_tracker/internal/controllers"
	"commute_tracker/internal/middleware"
)

func DashboardRoutes(r *gin.Engine) {
	r.GET("/dashboard", middleware.OptionalSession(), controllers.Dashboard)
}
