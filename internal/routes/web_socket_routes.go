package routes

import (
	"tripwise/internal/controllers"
	"tripwise/internal/live"
	"tripwise/internal/middleware"

	"github.com/gin-gonic/gin"
)

func WebSocketRoutes(r *gin.Engine, hub *live.Hub) {
	wsRoutes := r.Group("/ws")
	wsRoutes.Use(middleware.RequireAuthFromQuery())
	{
		wsRoutes.GET("/trips/:id/packing", controllers.PackingSocket(hub))
	}
}
