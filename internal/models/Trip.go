package models

import (
	"time"

	"github.com/twpayne/go-geom"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Trip is a planned journey to one destination over an inclusive date range.
// Packing items, outfit recommendations and smart-list runs belong to it.
type Trip struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Destination string    `gorm:"size:200;not null" json:"destination"`
	Latitude    float64   `gorm:"type:decimal(15,10)" json:"latitude"`
	Longitude   float64   `gorm:"type:decimal(15,10)" json:"longitude"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`

	PackingItems []PackingListItem      `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"packing_items,omitempty"`
	Outfits      []OutfitRecommendation `gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"outfits,omitempty"`
}

// DurationDays is the inclusive number of calendar days covered by the trip,
// never less than one.
func (t Trip) DurationDays() int {
	start := DateOnly(t.StartDate)
	end := DateOnly(t.EndDate)
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Point returns the trip location as a lon/lat point.
func (t Trip) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{t.Longitude, t.Latitude})
}

// DateOnly strips the clock and zone from t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
