package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripwise/internal/config"
	"tripwise/internal/live"
	"tripwise/internal/models"
	"tripwise/internal/notify"
	"tripwise/internal/testdb"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []live.Event
}

func (p *recordingPublisher) Publish(ev live.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func TestDeleteOutfitItemPublishes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t)
	config.DB = db
	t.Cleanup(func() { config.DB = nil })

	user := testdb.User(t, db, "owner@example.com", false)
	trip := testdb.Trip(t, db, user.ID, "Oslo", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC), 2)
	rec := models.OutfitRecommendation{
		TripID:            trip.ID,
		Day:               trip.StartDate,
		WeatherCondition:  "Snow",
		Temperature:       20,
		OutfitDescription: "- Parka",
		Items:             []models.OutfitItem{{Name: "Parka", Category: models.OutfitOuterwear}},
	}
	require.NoError(t, db.Create(&rec).Error)

	pub := &recordingPublisher{}
	oc := NewOutfitController(nil, nil, notify.LogNotifier{}, pub)
	r := gin.New()
	r.DELETE("/trips/:id/outfits/:outfitId/items/:itemId", func(c *gin.Context) {
		c.Set("user_id", user.ID)
	}, oc.DeleteOutfitItem)

	path := fmt.Sprintf("/trips/%d/outfits/%d/items/%d", trip.ID, rec.ID, rec.Items[0].ID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, pub.events, 1)
	assert.Equal(t, live.ListRegenerated, pub.events[0].Type)
	assert.Equal(t, trip.ID, pub.events[0].TripID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, pub.events, 1)
}
