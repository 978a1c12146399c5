package routes

import (
	"tripwise/internal/controllers"
	"tripwise/internal/middleware"

	"github.com/gin-gonic/gin"
)

func OutfitRoutes(r *gin.Engine, oc *controllers.OutfitController) {
	outfits := r.Group("/trips/:id/outfits")
	outfits.Use(middleware.RequireAuth())
	{
		outfits.GET("", oc.ListOutfits)
		outfits.POST("/generate", oc.GenerateOutfits)
		outfits.PUT("/:outfitId", oc.UpdateOutfit)
		outfits.POST("/:outfitId/regenerate", oc.RegenerateOutfit)
		outfits.POST("/:outfitId/items", oc.AddOutfitItem)
		outfits.DELETE("/:outfitId/items/:itemId", oc.DeleteOutfitItem)
	}
}
