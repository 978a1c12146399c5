package routes

import (
	"tripwise/internal/controllers"
	"tripwise/internal/middleware"

	"github.com/gin-gonic/gin"
)

func PackingRoutes(r *gin.Engine, pc *controllers.PackingController) {
	packing := r.Group("/trips/:id/packing")
	packing.Use(middleware.RequireAuth())
	{
		packing.GET("", pc.GetPackingList)
		packing.POST("/generate", pc.GenerateBaseline)
		packing.POST("/smart", pc.GenerateSmart)
		packing.POST("/items", pc.AddItem)
		packing.DELETE("/items/:itemId", pc.DeleteItem)
		packing.POST("/items/:itemId/toggle", pc.ToggleItem)
		packing.POST("/items/:itemId/quantity", pc.ChangeQuantity)
	}
}
