package events

import (
	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	events := router.Group("/events")
	{
		events.POST("", controller.CreateEvent)   // POST /events - Create event with sections
		events.POST("/create", controller.CreateEvent)
		events.GET("/:id", controller.GetEvent)   // GET /events/:id - Get event details
	}
}
