package packing

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tripwise/internal/models"
)

// SyncOutfitItems projects outfit item names into the trip's Clothing list.
// Missing names are created with quantity 1 and marked auto-generated. An
// existing row is only touched when its quantity is below 1, which is raised
// to 1. Packed state is never changed. Safe to call repeatedly.
func SyncOutfitItems(db *gorm.DB, tripID uint, names []string) error {
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		row := models.PackingListItem{
			TripID:          tripID,
			Name:            name,
			Category:        models.CategoryClothing,
			Quantity:        1,
			IsAutoGenerated: true,
		}
		created, err := insertIgnore(db, &row)
		if err != nil {
			return err
		}
		if created {
			continue
		}
		err = db.Model(&models.PackingListItem{}).
			Where("trip_id = ? AND name = ? AND category = ? AND quantity < ?", tripID, name, models.CategoryClothing, 1).
			Update("quantity", 1).Error
		if err != nil {
			return fmt.Errorf("raise quantity of %q: %w", name, err)
		}
	}
	return nil
}

// SyncTrip runs SyncOutfitItems for every outfit item of every outfit
// recommendation of the trip.
func SyncTrip(db *gorm.DB, tripID uint) error {
	var names []string
	err := db.Model(&models.OutfitItem{}).
		Joins("JOIN outfit_recommendations ON outfit_recommendations.id = outfit_items.outfit_id").
		Where("outfit_recommendations.trip_id = ?", tripID).
		Order("outfit_recommendations.day, outfit_items.id").
		Pluck("outfit_items.name", &names).Error
	if err != nil {
		return fmt.Errorf("load outfit items: %w", err)
	}
	return SyncOutfitItems(db, tripID, names)
}
