package packing

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tripwise/internal/models"
)

var (
	ErrItemNotFound  = errors.New("packing item not found")
	ErrDuplicateItem = errors.New("packing item already exists in this category")
	ErrInvalidItem   = errors.New("packing item needs a name and a category")
	ErrInvalidAction = errors.New("quantity action must be increase or decrease")
)

// Quantity actions
const (
	Increase = "increase"
	Decrease = "decrease"
)

// CategoryGroup is one category of a packing list with its progress.
type CategoryGroup struct {
	Category string                   `json:"category"`
	Items    []models.PackingListItem `json:"items"`
	Packed   int                      `json:"packed"`
	Total    int                      `json:"total"`
}

// List is a trip's packing list grouped by category.
type List struct {
	Categories []CategoryGroup `json:"categories"`
	Packed     int             `json:"packed"`
	Total      int             `json:"total"`
	Percent    int             `json:"percent"`
}

// Load returns the trip's items ordered by category and name, grouped.
func Load(db *gorm.DB, tripID uint) (List, error) {
	var items []models.PackingListItem
	if err := db.Where("trip_id = ?", tripID).Order("category, name").Find(&items).Error; err != nil {
		return List{}, fmt.Errorf("load packing list: %w", err)
	}
	return Group(items), nil
}

// Group buckets items, which must already be sorted by category, and counts
// packed items.
func Group(items []models.PackingListItem) List {
	list := List{Categories: []CategoryGroup{}}
	for _, item := range items {
		n := len(list.Categories)
		if n == 0 || list.Categories[n-1].Category != item.Category {
			list.Categories = append(list.Categories, CategoryGroup{Category: item.Category})
			n++
		}
		g := &list.Categories[n-1]
		g.Items = append(g.Items, item)
		g.Total++
		list.Total++
		if item.IsPacked {
			g.Packed++
			list.Packed++
		}
	}
	if list.Total > 0 {
		list.Percent = list.Packed * 100 / list.Total
	}
	return list
}

// AddItem creates a manual item. Quantities below 1 become 1.
func AddItem(db *gorm.DB, tripID uint, name, category string, quantity int, mustHave bool) (models.PackingListItem, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return models.PackingListItem{}, ErrInvalidItem
	}
	if quantity < 1 {
		quantity = 1
	}
	item := models.PackingListItem{
		TripID:   tripID,
		Name:     name,
		Category: category,
		Quantity: quantity,
		MustHave: mustHave,
	}
	created, err := insertIgnore(db, &item)
	if err != nil {
		return item, err
	}
	if !created {
		return item, ErrDuplicateItem
	}
	return item, nil
}

// DeleteItem removes one item of the trip.
func DeleteItem(db *gorm.DB, tripID, itemID uint) error {
	res := db.Where("id = ? AND trip_id = ?", itemID, tripID).Delete(&models.PackingListItem{})
	if res.Error != nil {
		return fmt.Errorf("delete packing item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// TogglePacked flips the packed flag and returns the updated item.
func TogglePacked(db *gorm.DB, tripID, itemID uint) (models.PackingListItem, error) {
	var item models.PackingListItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = findItem(tx, tripID, itemID)
		if err != nil {
			return err
		}
		item.IsPacked = !item.IsPacked
		return tx.Model(&item).Update("is_packed", item.IsPacked).Error
	})
	return item, err
}

// ChangeQuantity increases or decreases the quantity by one. A decrease never
// takes it below 1.
func ChangeQuantity(db *gorm.DB, tripID, itemID uint, action string) (models.PackingListItem, error) {
	if action != Increase && action != Decrease {
		return models.PackingListItem{}, ErrInvalidAction
	}
	var item models.PackingListItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = findItem(tx, tripID, itemID)
		if err != nil {
			return err
		}
		switch {
		case action == Increase:
			item.Quantity++
		case item.Quantity > 1:
			item.Quantity--
		default:
			return nil
		}
		return tx.Model(&item).Update("quantity", item.Quantity).Error
	})
	return item, err
}

// CanDecrease reports whether a decrease would change the item.
func CanDecrease(item models.PackingListItem) bool {
	return item.Quantity > 1
}
