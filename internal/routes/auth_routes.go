package routes

import (
	"github.com/gin-gonic/gin"

	"commute_tracker/internal/controllers"
	"commute_tracker/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signin", controllers.SignIn)
		auth.POST("/signup", controllers.Signup)
		auth.POST("/login", controllers.Login)
		auth.GET("/verify", controllers.Verify)
		auth.POST("/logout", middleware.RequireSession(), controllers.Logout)
	}
}
