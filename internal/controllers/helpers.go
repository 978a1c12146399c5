package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tripwise/internal/config"
	"tripwise/internal/live"
	"tripwise/internal/middleware"
	"tripwise/internal/models"
)

// Publisher receives packing-list change events.
type Publisher interface {
	Publish(ev live.Event)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + param})
		return 0, false
	}
	return uint(id), true
}

// ownedTrip loads the :id trip of the authenticated user and writes the
// error response itself when it cannot.
func ownedTrip(c *gin.Context) (models.Trip, bool) {
	var trip models.Trip
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return trip, false
	}
	tripID, ok := parseID(c, "id")
	if !ok {
		return trip, false
	}

	err = config.DB.Where("id = ? AND user_id = ?", tripID, userID).First(&trip).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return trip, false
	}
	if err != nil {
		middleware.Log(c).WithError(err).Error("Failed to load trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load trip"})
		return trip, false
	}
	return trip, true
}

func storageError(c *gin.Context, msg string, err error) {
	middleware.Log(c).WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
