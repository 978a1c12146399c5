package routes

import (
	"tripwise/internal/controllers"
	"tripwise/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine, tc *controllers.TripController, wc *controllers.WeatherController) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuth())
	{
		trips.GET("", tc.ListTrips)
		trips.POST("", tc.CreateTrip)
		trips.GET("/geojson", tc.TripsGeoJSON)
		trips.GET("/:id", tc.GetTrip)
		trips.PUT("/:id", tc.UpdateTrip)
		trips.DELETE("/:id", tc.DeleteTrip)
		trips.GET("/:id/weather", wc.ViewWeather)
	}
}
