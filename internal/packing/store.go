// Package packing builds and maintains trip packing lists.
package packing

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tripwise/internal/models"
)

var uniqueItem = []clause.Column{{Name: "trip_id"}, {Name: "name"}, {Name: "category"}}

// insertIgnore creates item unless a row with the same (trip, name, category)
// exists. It reports whether a row was inserted.
func insertIgnore(tx *gorm.DB, item *models.PackingListItem) (bool, error) {
	res := tx.Clauses(clause.OnConflict{Columns: uniqueItem, DoNothing: true}).Create(item)
	if res.Error != nil {
		return false, fmt.Errorf("insert packing item %q: %w", item.Name, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// findItem loads an item scoped to its trip.
func findItem(tx *gorm.DB, tripID, itemID uint) (models.PackingListItem, error) {
	var item models.PackingListItem
	err := tx.Where("id = ? AND trip_id = ?", itemID, tripID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, ErrItemNotFound
	}
	if err != nil {
		return item, fmt.Errorf("load packing item: %w", err)
	}
	return item, nil
}
