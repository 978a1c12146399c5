package models

import "time"

// OutfitRecommendation is the suggested outfit for one day of a trip.
type OutfitRecommendation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TripID            uint      `gorm:"not null;uniqueIndex:uidx_trip_day" json:"trip_id"`
	Day               time.Time `gorm:"type:date;not null;uniqueIndex:uidx_trip_day" json:"day"`
	WeatherCondition  string    `gorm:"size:100" json:"weather_condition"`
	Temperature       float64   `gorm:"type:decimal(5,2)" json:"temperature"`
	OutfitDescription string    `gorm:"type:text" json:"outfit_description"`
	IsCustomized      bool      `json:"is_customized"`
	CulturalNotes     *string   `gorm:"type:text" json:"cultural_notes,omitempty"`
	Activities        *string   `gorm:"size:255" json:"activities,omitempty"`

	Items []OutfitItem `gorm:"foreignKey:OutfitID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}
