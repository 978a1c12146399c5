package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripwise/internal/config"
	"tripwise/internal/live"
	"tripwise/internal/models"
	"tripwise/internal/notify"
	"tripwise/internal/outfit"
	"tripwise/internal/weather"
)

// OutfitGenerator writes outfit recommendations through a text generator.
type OutfitGenerator interface {
	GenerateForTrip(ctx context.Context, trip models.Trip, days []weather.DailySummary, activities string) ([]models.OutfitRecommendation, error)
	Regenerate(ctx context.Context, trip models.Trip, outfitID uint) (models.OutfitRecommendation, error)
}

type OutfitController struct {
	forecaster Forecaster
	outfits    OutfitGenerator
	notifier   notify.Notifier
	hub        Publisher
}

func NewOutfitController(forecaster Forecaster, outfits OutfitGenerator, notifier notify.Notifier, hub Publisher) *OutfitController {
	return &OutfitController{forecaster: forecaster, outfits: outfits, notifier: notifier, hub: hub}
}

func (oc *OutfitController) ListOutfits(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	recs, err := outfit.List(config.DB, trip.ID)
	if err != nil {
		storageError(c, "Could not load outfits", err)
		return
	}
	if recs == nil {
		recs = []models.OutfitRecommendation{}
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": trip.ID, "outfits": recs})
}

// GenerateOutfits creates recommendations for forecast days that have none.
func (oc *OutfitController) GenerateOutfits(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	var input struct {
		Activities string `json:"activities" form:"activities"`
	}
	// An empty body means no activities.
	if err := c.ShouldBind(&input); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	samples, ok := fetchForecast(c, oc.forecaster, oc.notifier, trip, false)
	if !ok {
		return
	}
	days := weather.Summarize(samples, trip.StartDate, trip.EndDate)

	created, err := oc.outfits.GenerateForTrip(c.Request.Context(), trip, days, input.Activities)
	if err != nil {
		storageError(c, "Could not generate outfits", err)
		return
	}
	if len(created) > 0 {
		oc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})
	}

	recs, err := outfit.List(config.DB, trip.ID)
	if err != nil {
		storageError(c, "Could not load outfits", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": trip.ID, "created": len(created), "outfits": recs})
}

func (oc *OutfitController) UpdateOutfit(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	outfitID, ok := parseID(c, "outfitId")
	if !ok {
		return
	}
	var input struct {
		OutfitDescription string `json:"outfit_description" form:"outfit_description" binding:"required"`
		Activities        string `json:"activities" form:"activities"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := outfit.Edit(config.DB, trip.ID, outfitID, input.OutfitDescription, input.Activities)
	if err != nil {
		oc.outfitError(c, err)
		return
	}
	oc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})
	c.JSON(http.StatusOK, gin.H{"outfit": rec})
}

func (oc *OutfitController) RegenerateOutfit(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	outfitID, ok := parseID(c, "outfitId")
	if !ok {
		return
	}
	rec, err := oc.outfits.Regenerate(c.Request.Context(), trip, outfitID)
	if err != nil {
		oc.outfitError(c, err)
		return
	}
	oc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})
	c.JSON(http.StatusOK, gin.H{"outfit": rec})
}

func (oc *OutfitController) AddOutfitItem(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	outfitID, ok := parseID(c, "outfitId")
	if !ok {
		return
	}
	var input struct {
		Name     string `json:"name" form:"name" binding:"required"`
		Category string `json:"category" form:"category"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := outfit.AddItem(config.DB, trip.ID, outfitID, input.Name, input.Category)
	if err != nil {
		oc.outfitError(c, err)
		return
	}
	oc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (oc *OutfitController) DeleteOutfitItem(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	outfitID, ok := parseID(c, "outfitId")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	if err := outfit.RemoveItem(config.DB, trip.ID, outfitID, itemID); err != nil {
		oc.outfitError(c, err)
		return
	}
	oc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func (oc *OutfitController) outfitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, outfit.ErrOutfitNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Outfit not found"})
	case errors.Is(err, outfit.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, outfit.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		storageError(c, "Could not update outfit", err)
	}
}
