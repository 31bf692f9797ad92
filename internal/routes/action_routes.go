package routes

import (
	"github.com/gin-gonic/gin"

	"commute_tracker/internal/controllers"
	"commute_tracker/internal/middleware"
)

// ActionRoutes exposes the form-action surface. Handlers enforce their
// own auth so field validation can run in its documented order.
func ActionRoutes(r *gin.Engine) {
	actions := r.Group("/actions")
	actions.Use(middleware.OptionalSession())
	{
		actions.POST("/postRoute", controllers.PostRoute)
		actions.POST("/deleteRoute", controllers.DeleteRoute)
		actions.POST("/updateRouteName", controllers.UpdateRouteName)
		actions.POST("/moveRouteToGroup", controllers.MoveRouteToGroup)
		actions.POST("/postTrip", controllers.PostTrip)
		actions.POST("/deleteTrip", controllers.DeleteTrip)
		actions.POST("/createGroup", controllers.CreateGroup)
		actions.POST("/updateGroupName", controllers.UpdateGroupName)
		actions.POST("/deleteGroup", controllers.DeleteGroup)
	}
}
