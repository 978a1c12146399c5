// Package outfit generates daily outfit recommendations and keeps their
// items in sync with the packing list.
package outfit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tripwise/internal/models"
	"tripwise/internal/notify"
	"tripwise/internal/packing"
	"tripwise/internal/textgen"
	"tripwise/internal/weather"
)

var (
	ErrOutfitNotFound = errors.New("outfit recommendation not found")
	ErrItemNotFound   = errors.New("outfit item not found")
	ErrInvalidItem    = errors.New("outfit item needs a name and a known category")
)

var (
	outfitOptions   = textgen.Options{MaxTokens: 150, Temperature: 0.3}
	culturalOptions = textgen.Options{MaxTokens: 100, Temperature: 0.3}
)

// Generator creates outfit recommendations through a text generator.
type Generator struct {
	db       *gorm.DB
	text     textgen.Generator
	notifier notify.Notifier
}

func NewGenerator(db *gorm.DB, text textgen.Generator, notifier notify.Notifier) *Generator {
	return &Generator{db: db, text: text, notifier: notifier}
}

// describe returns the bulleted outfit text, or the fallback text when
// generation fails.
func (g *Generator) describe(ctx context.Context, d DayContext) string {
	text, err := g.text.Generate(ctx, OutfitPrompt(d), outfitOptions)
	if err != nil {
		logrus.WithError(err).WithField("destination", d.Destination).Warn("outfit generation failed, using fallback")
		g.notifier.APIFailure(notify.APITextGeneration, err)
		return FallbackDescription(d.Condition, d.Temperature)
	}
	return EnsureBullets(text)
}

func (g *Generator) culturalNotes(ctx context.Context, destination string) *string {
	text, err := g.text.Generate(ctx, CulturalPrompt(destination), culturalOptions)
	if err != nil {
		logrus.WithError(err).WithField("destination", destination).Warn("cultural notes generation failed")
		g.notifier.APIFailure(notify.APITextGeneration, err)
		return nil
	}
	text = EnsureBullets(text)
	return &text
}

func itemsFrom(description string) []models.OutfitItem {
	parsed := ParseItems(description)
	items := make([]models.OutfitItem, 0, len(parsed))
	for _, p := range parsed {
		items = append(items, models.OutfitItem{Name: p.Name, Category: p.Category})
	}
	return items
}

func itemNames(items []models.OutfitItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// GenerateForTrip creates a recommendation for every summarized day that
// falls inside the trip and has none yet. Text generation failures fall back
// per day and never fail the call.
func (g *Generator) GenerateForTrip(ctx context.Context, trip models.Trip, days []weather.DailySummary, activities string) ([]models.OutfitRecommendation, error) {
	var existing []models.OutfitRecommendation
	if err := g.db.Where("trip_id = ?", trip.ID).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("load outfits: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, rec := range existing {
		have[rec.Day.Format(models.DateLayout)] = true
	}

	start := models.DateOnly(trip.StartDate)
	end := models.DateOnly(trip.EndDate)

	var created []models.OutfitRecommendation
	for _, day := range days {
		if day.Date.Before(start) || day.Date.After(end) || have[day.ISODate] {
			continue
		}
		temp := math.Round(day.FeelsLike*100) / 100
		description := g.describe(ctx, DayContext{
			Destination: trip.Destination,
			Temperature: temp,
			Condition:   day.Description,
			Season:      Season(day.Date.Month(), trip.Latitude),
			Activities:  activities,
		})
		rec := models.OutfitRecommendation{
			TripID:            trip.ID,
			Day:               day.Date,
			WeatherCondition:  day.Description,
			Temperature:       temp,
			OutfitDescription: description,
			CulturalNotes:     g.culturalNotes(ctx, trip.Destination),
			Activities:        optional(activities),
			Items:             itemsFrom(description),
		}

		err := g.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&rec).Error; err != nil {
				return fmt.Errorf("create outfit for %s: %w", day.ISODate, err)
			}
			return packing.SyncOutfitItems(tx, trip.ID, itemNames(rec.Items))
		})
		if err != nil {
			return created, err
		}
		have[day.ISODate] = true
		created = append(created, rec)
	}
	return created, nil
}

// Load returns a recommendation of the trip with its items.
func Load(db *gorm.DB, tripID, outfitID uint) (models.OutfitRecommendation, error) {
	var rec models.OutfitRecommendation
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("category, name")
	}).Where("id = ? AND trip_id = ?", outfitID, tripID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rec, ErrOutfitNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("load outfit: %w", err)
	}
	return rec, nil
}

// List returns the trip's recommendations ordered by day.
func List(db *gorm.DB, tripID uint) ([]models.OutfitRecommendation, error) {
	var recs []models.OutfitRecommendation
	err := db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("category, name")
	}).Where("trip_id = ?", tripID).Order("day").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}
	return recs, nil
}

// replaceItems swaps the recommendation's items for those parsed from its
// description and syncs them into the packing list.
func replaceItems(tx *gorm.DB, rec *models.OutfitRecommendation) error {
	if err := tx.Where("outfit_id = ?", rec.ID).Delete(&models.OutfitItem{}).Error; err != nil {
		return fmt.Errorf("clear outfit items: %w", err)
	}
	rec.Items = itemsFrom(rec.OutfitDescription)
	for i := range rec.Items {
		rec.Items[i].OutfitID = rec.ID
	}
	if len(rec.Items) > 0 {
		if err := tx.Create(&rec.Items).Error; err != nil {
			return fmt.Errorf("create outfit items: %w", err)
		}
	}
	return packing.SyncOutfitItems(tx, rec.TripID, itemNames(rec.Items))
}

// Regenerate replaces the description using the stored condition,
// temperature and activities, then reparses its items.
func (g *Generator) Regenerate(ctx context.Context, trip models.Trip, outfitID uint) (models.OutfitRecommendation, error) {
	rec, err := Load(g.db, trip.ID, outfitID)
	if err != nil {
		return rec, err
	}
	activities := ""
	if rec.Activities != nil {
		activities = *rec.Activities
	}
	rec.OutfitDescription = g.describe(ctx, DayContext{
		Destination: trip.Destination,
		Temperature: rec.Temperature,
		Condition:   rec.WeatherCondition,
		Season:      Season(rec.Day.Month(), trip.Latitude),
		Activities:  activities,
	})
	rec.IsCustomized = true

	err = g.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.OutfitRecommendation{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
			"outfit_description": rec.OutfitDescription,
			"is_customized":      true,
		}).Error
		if err != nil {
			return fmt.Errorf("update outfit: %w", err)
		}
		return replaceItems(tx, &rec)
	})
	return rec, err
}

// Edit stores a user-written description and activities, marks the
// recommendation customized and reparses its items.
func Edit(db *gorm.DB, tripID, outfitID uint, description, activities string) (models.OutfitRecommendation, error) {
	rec, err := Load(db, tripID, outfitID)
	if err != nil {
		return rec, err
	}
	rec.OutfitDescription = description
	rec.Activities = optional(activities)
	rec.IsCustomized = true

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.OutfitRecommendation{}).Where("id = ?", rec.ID).Updates(map[string]interface{}{
			"outfit_description": rec.OutfitDescription,
			"activities":         rec.Activities,
			"is_customized":      true,
		}).Error
		if err != nil {
			return fmt.Errorf("update outfit: %w", err)
		}
		return replaceItems(tx, &rec)
	})
	return rec, err
}

// AddItem attaches a garment to a recommendation. An empty category is
// inferred from the name.
func AddItem(db *gorm.DB, tripID, outfitID uint, name, category string) (models.OutfitItem, error) {
	name = strings.TrimSpace(name)
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = Categorize(name)
	}
	if name == "" || !models.ValidOutfitCategory(category) {
		return models.OutfitItem{}, ErrInvalidItem
	}
	if _, err := Load(db, tripID, outfitID); err != nil {
		return models.OutfitItem{}, err
	}

	item := models.OutfitItem{OutfitID: outfitID, Name: name, Category: category}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("create outfit item: %w", err)
		}
		return packing.SyncOutfitItems(tx, tripID, []string{name})
	})
	return item, err
}

// RemoveItem deletes a garment from a recommendation. The packing list keeps
// its row; only the sync pass runs again.
func RemoveItem(db *gorm.DB, tripID, outfitID, itemID uint) error {
	if _, err := Load(db, tripID, outfitID); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND outfit_id = ?", itemID, outfitID).Delete(&models.OutfitItem{})
		if res.Error != nil {
			return fmt.Errorf("delete outfit item: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return packing.SyncTrip(tx, tripID)
	})
}
