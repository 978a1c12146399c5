package models

import "time"

// GeocodeCache remembers where a destination name resolved to.
type GeocodeCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Query     string    `gorm:"size:200;not null;uniqueIndex" json:"query"`
	Latitude  float64   `gorm:"type:decimal(15,10);not null" json:"latitude"`
	Longitude float64   `gorm:"type:decimal(15,10);not null" json:"longitude"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

