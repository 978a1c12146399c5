package routes

import (
	"io"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tripwise/internal/controllers"
	"tripwise/internal/live"
	"tripwise/internal/middleware"
)

// Handlers are the controllers the router dispatches to.
type Handlers struct {
	Trips   *controllers.TripController
	Weather *controllers.WeatherController
	Packing *controllers.PackingController
	Outfits *controllers.OutfitController
	Hub     *live.Hub
}

// SetupRouter builds the engine with its middleware chain and every route
// group. Access logs go to accessLog.
func SetupRouter(h Handlers, accessLog io.Writer) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.StripQueryToken())
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(accessLog),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/healthz"}),
		ginlog.WithLogger(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
			return l.With().Str("request_id", c.GetString("request_id")).Logger()
		}),
	))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())

	r.GET("/healthz", controllers.Healthz)

	AuthRoutes(r)
	TripRoutes(r, h.Trips, h.Weather)
	PackingRoutes(r, h.Packing)
	OutfitRoutes(r, h.Outfits)
	WebSocketRoutes(r, h.Hub)

	return r
}
