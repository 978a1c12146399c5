package models

import "time"

// Outfit item categories.
const (
	OutfitTop       = "top"
	OutfitBottom    = "bottom"
	OutfitOuterwear = "outerwear"
	OutfitFootwear  = "footwear"
	OutfitAccessory = "accessory"
	OutfitOther     = "other"
)

// OutfitItem is a garment parsed from (or added to) an outfit recommendation.
type OutfitItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OutfitID uint   `gorm:"not null;index" json:"outfit_id"`
	Name     string `gorm:"size:200;not null" json:"name"`
	Category string `gorm:"size:50;not null" json:"category"`
}

// ValidOutfitCategory reports whether c is one of the fixed outfit categories.
func ValidOutfitCategory(c string) bool {
	switch c {
	case OutfitTop, OutfitBottom, OutfitOuterwear, OutfitFootwear, OutfitAccessory, OutfitOther:
		return true
	}
	return false
}
