package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripwise/internal/config"
	"tripwise/internal/live"
	"tripwise/internal/models"
	"tripwise/internal/notify"
	"tripwise/internal/packing"
	"tripwise/internal/weather"
)

// SmartLister builds an AI packing list for a trip.
type SmartLister interface {
	Generate(ctx context.Context, trip models.Trip, days []weather.DailySummary, samples []weather.Sample) (packing.SmartResult, error)
}

type PackingController struct {
	forecaster Forecaster
	smart      SmartLister
	notifier   notify.Notifier
	hub        Publisher
}

func NewPackingController(forecaster Forecaster, smart SmartLister, notifier notify.Notifier, hub Publisher) *PackingController {
	return &PackingController{forecaster: forecaster, smart: smart, notifier: notifier, hub: hub}
}

func (pc *PackingController) respondList(c *gin.Context, status int, trip models.Trip, extra gin.H) {
	list, err := packing.Load(config.DB, trip.ID)
	if err != nil {
		storageError(c, "Could not load packing list", err)
		return
	}
	body := gin.H{"trip_id": trip.ID, "packing_list": list}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func (pc *PackingController) GetPackingList(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	pc.respondList(c, http.StatusOK, trip, nil)
}

// GenerateBaseline adds the deterministic list. A failed forecast ends the
// request before anything is written.
func (pc *PackingController) GenerateBaseline(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	samples, ok := fetchForecast(c, pc.forecaster, pc.notifier, trip, false)
	if !ok {
		return
	}
	if err := packing.GenerateBaseline(config.DB, trip, samples); err != nil {
		storageError(c, "Could not generate packing list", err)
		return
	}
	pc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})
	pc.respondList(c, http.StatusOK, trip, nil)
}

func (pc *PackingController) GenerateSmart(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	samples, ok := fetchForecast(c, pc.forecaster, pc.notifier, trip, false)
	if !ok {
		return
	}
	days := weather.Summarize(samples, trip.StartDate, trip.EndDate)

	res, err := pc.smart.Generate(c.Request.Context(), trip, days, samples)
	if err != nil {
		storageError(c, "Could not generate packing list", err)
		return
	}
	pc.hub.Publish(live.Event{Type: live.ListRegenerated, TripID: trip.ID})

	extra := gin.H{"status": res.Status}
	if res.Error != "" {
		extra["message"] = "Smart list unavailable, the standard list was generated instead"
	}
	pc.respondList(c, http.StatusOK, trip, extra)
}

type packingItemInput struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Category string `json:"category" form:"category" binding:"required"`
	Quantity int    `json:"quantity" form:"quantity"`
	MustHave bool   `json:"must_have" form:"must_have"`
}

func (pc *PackingController) AddItem(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	var input packingItemInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := packing.AddItem(config.DB, trip.ID, input.Name, input.Category, input.Quantity, input.MustHave)
	switch {
	case errors.Is(err, packing.ErrInvalidItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, packing.ErrDuplicateItem):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		storageError(c, "Could not add item", err)
		return
	}
	pc.hub.Publish(live.Event{Type: live.ItemAdded, TripID: trip.ID, Data: item})
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (pc *PackingController) DeleteItem(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	if err := packing.DeleteItem(config.DB, trip.ID, itemID); err != nil {
		pc.itemError(c, err)
		return
	}
	pc.hub.Publish(live.Event{Type: live.ItemDeleted, TripID: trip.ID, Data: gin.H{"id": itemID}})
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

func (pc *PackingController) ToggleItem(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	item, err := packing.TogglePacked(config.DB, trip.ID, itemID)
	if err != nil {
		pc.itemError(c, err)
		return
	}
	pc.hub.Publish(live.Event{Type: live.ItemUpdated, TripID: trip.ID, Data: item})
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (pc *PackingController) ChangeQuantity(c *gin.Context) {
	trip, ok := ownedTrip(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}
	var input struct {
		Action string `json:"action" form:"action" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := packing.ChangeQuantity(config.DB, trip.ID, itemID, input.Action)
	if err != nil {
		pc.itemError(c, err)
		return
	}
	pc.hub.Publish(live.Event{Type: live.ItemUpdated, TripID: trip.ID, Data: item})
	c.JSON(http.StatusOK, gin.H{
		"item":         item,
		"quantity":     item.Quantity,
		"can_decrease": packing.CanDecrease(item),
	})
}

func (pc *PackingController) itemError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, packing.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, packing.ErrInvalidAction):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		storageError(c, "Could not update item", err)
	}
}
