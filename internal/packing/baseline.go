package packing

import (
	"fmt"

	"gorm.io/gorm"

	"tripwise/internal/models"
	"tripwise/internal/weather"
)

// Weather thresholds in °F.
const (
	ColdBelow = 60.0
	HotAbove  = 75.0
)

type baselineItem struct {
	Category string
	Name     string
	MustHave bool
}

var essentials = []baselineItem{
	{models.CategoryToiletries, "Toothbrush", true},
	{models.CategoryToiletries, "Toothpaste", true},
	{models.CategoryToiletries, "Deodorant", false},
	{models.CategoryToiletries, "Shampoo", false},

	{models.CategoryDocuments, "Passport", true},
	{models.CategoryDocuments, "ID/Driver's License", true},
	{models.CategoryDocuments, "Boarding Passes/Tickets", true},
	{models.CategoryDocuments, "Travel Insurance", false},
	{models.CategoryDocuments, "Hotel Confirmation", false},

	{models.CategoryElectronics, "Phone Charger", true},
	{models.CategoryElectronics, "Power Bank", false},
	{models.CategoryElectronics, "Headphones", false},
	{models.CategoryElectronics, "Travel Adapter", false},

	{models.CategoryMiscellaneous, "Medications", true},
	{models.CategoryMiscellaneous, "Wallet", true},
	{models.CategoryMiscellaneous, "Reusable Water Bottle", false},
	{models.CategoryMiscellaneous, "Snacks", false},
}

var coldItems = []baselineItem{
	{models.CategoryClothing, "Warm Jacket", false},
	{models.CategoryClothing, "Sweater", false},
	{models.CategoryClothing, "Gloves", false},
	{models.CategoryClothing, "Scarf", false},
	{models.CategoryClothing, "Thermal Underwear", false},
}

var hotItems = []baselineItem{
	{models.CategoryToiletries, "Sunscreen", false},
	{models.CategoryClothing, "Sunglasses", false},
	{models.CategoryClothing, "Hat", false},
	{models.CategoryClothing, "Shorts", false},
}

var rainItems = []baselineItem{
	{models.CategoryMiscellaneous, "Umbrella", false},
	{models.CategoryClothing, "Rain Jacket", false},
	{models.CategoryClothing, "Waterproof Shoes", false},
}

// Conditions says which weather sets a forecast window triggers.
type Conditions struct {
	Cold bool
	Hot  bool
	Rain bool
}

// Evaluate flags each weather set when any sample satisfies its threshold.
func Evaluate(samples []weather.Sample) Conditions {
	var c Conditions
	for _, s := range samples {
		if s.FeelsLike < ColdBelow {
			c.Cold = true
		}
		if s.FeelsLike > HotAbove {
			c.Hot = true
		}
		if s.RainMM > 0 {
			c.Rain = true
		}
	}
	return c
}

// ClothingCounts returns the duration-scaled clothing quantities.
func ClothingCounts(days int) map[string]int {
	if days < 1 {
		days = 1
	}
	return map[string]int{
		"T-shirt":   days,
		"Underwear": days,
		"Socks":     days,
		"Pants":     days/2 + 1,
	}
}

var clothingOrder = []string{"T-shirt", "Underwear", "Socks", "Pants"}

// GenerateBaseline inserts the deterministic packing list for trip. samples
// is the raw forecast; only samples within the trip dates are considered.
// Existing rows are never modified, so repeated calls converge.
func GenerateBaseline(db *gorm.DB, trip models.Trip, samples []weather.Sample) error {
	cond := Evaluate(weather.InWindow(samples, trip.StartDate, trip.EndDate))

	items := append([]baselineItem{}, essentials...)
	if cond.Cold {
		items = append(items, coldItems...)
	}
	if cond.Hot {
		items = append(items, hotItems...)
	}
	if cond.Rain {
		items = append(items, rainItems...)
	}
	counts := ClothingCounts(trip.DurationDays())

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, b := range items {
			row := models.PackingListItem{
				TripID:          trip.ID,
				Name:            b.Name,
				Category:        b.Category,
				Quantity:        1,
				IsAutoGenerated: true,
				MustHave:        b.MustHave,
			}
			if _, err := insertIgnore(tx, &row); err != nil {
				return err
			}
		}
		for _, name := range clothingOrder {
			row := models.PackingListItem{
				TripID:          trip.ID,
				Name:            name,
				Category:        models.CategoryClothing,
				Quantity:        counts[name],
				IsAutoGenerated: true,
			}
			if _, err := insertIgnore(tx, &row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("generate baseline list: %w", err)
	}
	return nil
}
