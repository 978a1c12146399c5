package controllers

import (
	"github.com/gin-gonic/gin"

	"tripwise/internal/live"
	"tripwise/internal/middleware"
)

// PackingSocket upgrades to a websocket that receives the trip's packing
// list changes. Authentication happens before the upgrade via the token
// query parameter.
func PackingSocket(hub *live.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		trip, ok := ownedTrip(c)
		if !ok {
			return
		}
		conn, err := live.Upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			middleware.Log(c).WithError(err).Error("Failed to upgrade WebSocket connection.")
			return
		}
		defer conn.Close()
		hub.Serve(trip.ID, conn)
	}
}
