package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"tripwise/internal/config"
	"tripwise/internal/controllers"
	"tripwise/internal/geocode"
	"tripwise/internal/jobs"
	"tripwise/internal/live"
	"tripwise/internal/logger"
	"tripwise/internal/middleware"
	"tripwise/internal/notify"
	"tripwise/internal/outfit"
	"tripwise/internal/packing"
	"tripwise/internal/routes"
	"tripwise/internal/textgen"
	"tripwise/internal/weather"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// Initialize structured logging to file
	accessLog := logger.Setup(cfg.LogFile, cfg.LogLevel)
	middleware.Configure(cfg.JWTSecret, cfg.JWTTTL)

	// Connect to the database
	config.InitDB(cfg)

	var forecastCache weather.Cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logrus.WithError(err).Warn("Redis unreachable, forecast cache disabled")
		} else {
			forecastCache = weather.NewRedisCache(rdb, cfg.ForecastCacheTTL)
			defer rdb.Close()
		}
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPHost != "" {
		notifier = notify.NewSMTPNotifier(config.DB, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		logrus.Warn("SMTP_HOST not set, operator notifications are only logged")
	}

	forecaster := weather.NewClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey, forecastCache)
	geocoder := geocode.NewCachedGeocoder(config.DB, geocode.NewClient(cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey), geocode.DefaultTTL)
	text := textgen.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	hub := live.NewHub()

	r := routes.SetupRouter(routes.Handlers{
		Trips:   controllers.NewTripController(geocoder, notifier),
		Weather: controllers.NewWeatherController(forecaster, notifier),
		Packing: controllers.NewPackingController(forecaster, packing.NewSmartGenerator(config.DB, text, notifier), notifier, hub),
		Outfits: controllers.NewOutfitController(forecaster, outfit.NewGenerator(config.DB, text, notifier), notifier, hub),
		Hub:     hub,
	}, accessLog)

	scheduler, err := jobs.Start(config.DB)
	if err != nil {
		logrus.Fatalf("failed to schedule jobs: %v", err)
	}

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: r,
	}

	go func() {
		logrus.Infof("🚀 Server running at :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
	<-scheduler.Stop().Done()
	hub.Close()

	logrus.Info("Server exited properly")
}
