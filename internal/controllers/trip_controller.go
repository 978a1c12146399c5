package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom/encoding/geojson"
	"gorm.io/gorm"

	"tripwise/internal/config"
	"tripwise/internal/geocode"
	"tripwise/internal/middleware"
	"tripwise/internal/models"
	"tripwise/internal/notify"
)

// TripResponse is the API form of a trip with calendar dates as strings.
type TripResponse struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Destination string    `json:"destination"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Days        int       `json:"days"`
}

func toTripResponse(trip models.Trip) TripResponse {
	return TripResponse{
		ID:          trip.ID,
		CreatedAt:   trip.CreatedAt,
		UpdatedAt:   trip.UpdatedAt,
		Destination: trip.Destination,
		Latitude:    trip.Latitude,
		Longitude:   trip.Longitude,
		StartDate:   trip.StartDate.Format(models.DateLayout),
		EndDate:     trip.EndDate.Format(models.DateLayout),
		Days:        trip.DurationDays(),
	}
}

type tripInput struct {
	Destination string `json:"destination" form:"destination" binding:"required"`
	StartDate   string `json:"start_date" form:"start_date" binding:"required"`
	EndDate     string `json:"end_date" form:"end_date" binding:"required"`
}

var errDateOrder = errors.New("start_date must not be after end_date")

func (in tripInput) dates() (time.Time, time.Time, error) {
	start, err := time.Parse(models.DateLayout, strings.TrimSpace(in.StartDate))
	if err != nil {
		return start, start, errors.New("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(models.DateLayout, strings.TrimSpace(in.EndDate))
	if err != nil {
		return start, end, errors.New("end_date must be YYYY-MM-DD")
	}
	if start.After(end) {
		return start, end, errDateOrder
	}
	return start, end, nil
}

type TripController struct {
	geocoder geocode.Geocoder
	notifier notify.Notifier
}

func NewTripController(geocoder geocode.Geocoder, notifier notify.Notifier) *TripController {
	return &TripController{geocoder: geocoder, notifier: notifier}
}

// locate geocodes a destination and writes the error response on failure.
func (tc *TripController) locate(c *gin.Context, destination string) (geocode.Location, bool) {
	loc, err := tc.geocoder.Lookup(c.Request.Context(), destination)
	if err == nil {
		return loc, true
	}
	log := middleware.Log(c).WithError(err).WithField("destination", destination)
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not find destination " + strconv.Quote(destination)})
	case errors.Is(err, geocode.ErrMalformedPayload):
		log.Warn("Malformed geocoding payload")
		c.JSON(http.StatusBadGateway, gin.H{"error": "We could not process the location data, please try again later"})
	default:
		log.Error("Geocoding request failed")
		tc.notifier.APIFailure(notify.APIGeocoding, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Location service is unavailable right now, please try again later"})
	}
	return loc, false
}

func (tc *TripController) ListTrips(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	var trips []models.Trip
	if err := config.DB.Where("user_id = ?", userID).Order("start_date, id").Find(&trips).Error; err != nil {
		storageError(c, "Could not list trips", err)
		return
	}
	out := make([]TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (tc *TripController) CreateTrip(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	var input tripInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, err := input.dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	destination := strings.TrimSpace(input.Destination)
	loc, ok := tc.locate(c, destination)
	if !ok {
		return
	}

	trip := models.Trip{
		UserID:      userID,
		Destination: destination,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		StartDate:   start,
		EndDate:     end,
	}
	if err := config.DB.Create(&trip).Error; err != nil {
		storageError(c, "Could not create trip", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": toTripResponse(trip)})
}

func (tc *TripController) GetTrip(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTripResponse(trip)})
}

// UpdateTrip edits a trip. The destination is geocoded again only when its
// name changes.
func (tc *TripController) UpdateTrip(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	var input tripInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, end, err := input.dates()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	destination := strings.TrimSpace(input.Destination)
	if !strings.EqualFold(destination, trip.Destination) {
		loc, ok := tc.locate(c, destination)
		if !ok {
			return
		}
		trip.Latitude, trip.Longitude = loc.Latitude, loc.Longitude
	}
	trip.Destination = destination
	trip.StartDate = start
	trip.EndDate = end

	err = config.DB.Model(&models.Trip{}).Where("id = ?", trip.ID).Updates(map[string]interface{}{
		"destination": trip.Destination,
		"latitude":    trip.Latitude,
		"longitude":   trip.Longitude,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
	}).Error
	if err != nil {
		storageError(c, "Could not update trip", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTripResponse(trip)})
}

// DeleteTrip removes the trip with its packing list, outfits and smart list runs.
func (tc *TripController) DeleteTrip(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		outfits := tx.Model(&models.OutfitRecommendation{}).Select("id").Where("trip_id = ?", trip.ID)
		if err := tx.Where("outfit_id IN (?)", outfits).Delete(&models.OutfitItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.OutfitRecommendation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Delete(&models.PackingListItem{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("trip_id = ?", trip.ID).Delete(&models.SmartListRun{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Trip{}, trip.ID).Error
	})
	if err != nil {
		storageError(c, "Could not delete trip", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// TripsGeoJSON returns the user's trips as a GeoJSON FeatureCollection of points.
func (tc *TripController) TripsGeoJSON(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	var trips []models.Trip
	if err := config.DB.Where("user_id = ?", userID).Order("start_date, id").Find(&trips).Error; err != nil {
		storageError(c, "Could not list trips", err)
		return
	}

	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(trips))}
	for _, t := range trips {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.FormatUint(uint64(t.ID), 10),
			Geometry: t.Point(),
			Properties: map[string]interface{}{
				"destination": t.Destination,
				"start_date":  t.StartDate.Format(models.DateLayout),
				"end_date":    t.EndDate.Format(models.DateLayout),
			},
		})
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		storageError(c, "Could not encode trips", err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}
