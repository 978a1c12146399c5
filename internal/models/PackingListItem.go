package models

import "time"

// Packing list categories used by the generators.
const (
	CategoryClothing      = "Clothing"
	CategoryToiletries    = "Toiletries"
	CategoryDocuments     = "Documents"
	CategoryElectronics   = "Electronics"
	CategoryMiscellaneous = "Miscellaneous"
)

// PackingListItem is one line of a trip's packing list. A name appears at most
// once per (trip, category); the unique index enforces it.
type PackingListItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TripID          uint   `gorm:"not null;uniqueIndex:uidx_trip_item" json:"trip_id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:uidx_trip_item" json:"name"`
	Category        string `gorm:"size:100;not null;uniqueIndex:uidx_trip_item" json:"category"`
	Quantity        int    `gorm:"not null" json:"quantity"`
	IsPacked        bool   `json:"is_packed"`
	IsAutoGenerated bool   `json:"is_auto_generated"`
	MustHave        bool   `json:"must_have"`
}
