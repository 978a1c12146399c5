package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Smart list run statuses
const (
	SmartListCompleted = "completed"
	SmartListFallback  = "fallback"
)

// SmartListRun records one AI packing-list request and what came back.
type SmartListRun struct {
	gorm.Model
	TripID       uint           `gorm:"not null;index" json:"trip_id"`
	Status       string         `gorm:"not null;index" json:"status"`
	Content      datatypes.JSON `json:"content"`
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`
}
