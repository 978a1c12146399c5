package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripwise/internal/middleware"
	"tripwise/internal/models"
	"tripwise/internal/notify"
	"tripwise/internal/weather"
)

const (
	weatherUnavailableMsg = "Weather service is unavailable right now, please try again later"
	weatherMalformedMsg   = "We could not process the weather data, please try again later"
)

// Forecaster returns raw forecast samples for a location.
type Forecaster interface {
	Forecast(ctx context.Context, lat, lon float64) ([]weather.Sample, error)
}

type WeatherController struct {
	forecaster Forecaster
	notifier   notify.Notifier
}

func NewWeatherController(forecaster Forecaster, notifier notify.Notifier) *WeatherController {
	return &WeatherController{forecaster: forecaster, notifier: notifier}
}

// fetchForecast loads samples for trip or writes a 502 with an empty day
// list. Unreachable upstreams always notify operators; malformed payloads
// only when notifyMalformed is set.
func fetchForecast(c *gin.Context, f Forecaster, n notify.Notifier, trip models.Trip, notifyMalformed bool) ([]weather.Sample, bool) {
	samples, err := f.Forecast(c.Request.Context(), trip.Latitude, trip.Longitude)
	if err == nil {
		return samples, true
	}

	log := middleware.Log(c).WithError(err).WithField("trip_id", trip.ID)
	switch {
	case errors.Is(err, weather.ErrMalformedPayload):
		log.Warn("Malformed forecast payload")
		if notifyMalformed {
			n.APIFailure(notify.APIWeather, err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": weatherMalformedMsg, "days": []weather.DailySummary{}})
	default:
		log.Error("Forecast request failed")
		n.APIFailure(notify.APIWeather, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": weatherUnavailableMsg, "days": []weather.DailySummary{}})
	}
	return nil, false
}

const longDate = "Monday, January 2, 2006"

// ViewWeather returns the daily forecast for the trip's dates.
func (wc *WeatherController) ViewWeather(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	samples, ok := fetchForecast(c, wc.forecaster, wc.notifier, trip, true)
	if !ok {
		return
	}

	days := weather.Summarize(samples, trip.StartDate, trip.EndDate)
	if days == nil {
		days = []weather.DailySummary{}
	}
	c.JSON(http.StatusOK, gin.H{
		"trip": gin.H{
			"id":          trip.ID,
			"destination": trip.Destination,
			"start_date":  trip.StartDate.Format(longDate),
			"end_date":    trip.EndDate.Format(longDate),
		},
		"weather": gin.H{"days": days},
	})
}
