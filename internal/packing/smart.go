package packing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tripwise/internal/models"
	"tripwise/internal/notify"
	"tripwise/internal/textgen"
	"tripwise/internal/weather"
)

// ErrSmartListFormat means the generated text held no usable JSON object.
var ErrSmartListFormat = errors.New("smart list response is not a JSON object of item arrays")

// Categories whose auto-generated rows a smart list replaces.
var smartReplaced = []string{
	models.CategoryToiletries,
	models.CategoryElectronics,
	models.CategoryMiscellaneous,
}

// SmartItem is one entry of a generated packing list.
type SmartItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// SmartResult tells the caller which path a smart list request took.
type SmartResult struct {
	Status     string                 `json:"status"`
	Categories map[string][]SmartItem `json:"categories,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// SmartGenerator asks the text generator for a packing list and falls back
// to the baseline list when that fails.
type SmartGenerator struct {
	db       *gorm.DB
	text     textgen.Generator
	notifier notify.Notifier
}

func NewSmartGenerator(db *gorm.DB, text textgen.Generator, notifier notify.Notifier) *SmartGenerator {
	return &SmartGenerator{db: db, text: text, notifier: notifier}
}

// SmartPrompt builds the request for a JSON packing list.
func SmartPrompt(trip models.Trip, days []weather.DailySummary) string {
	condition, temp := "unknown", "unknown"
	if len(days) > 0 {
		condition = days[0].Description
		temp = fmt.Sprintf("%d°F", days[0].Temperature)
	}
	return fmt.Sprintf(
		"Create a packing list for a %d-day trip to %s. The weather on the first day is %s at %s. "+
			"Respond only with a JSON object whose keys are the categories Toiletries, Documents, "+
			"Electronics and Miscellaneous and whose values are arrays of item names. "+
			"Do not include clothing.",
		trip.DurationDays(), trip.Destination, condition, temp,
	)
}

// Generate builds a smart list for trip. samples is the raw forecast, used
// only when falling back to the baseline list.
func (g *SmartGenerator) Generate(ctx context.Context, trip models.Trip, days []weather.DailySummary, samples []weather.Sample) (SmartResult, error) {
	text, err := g.text.Generate(ctx, SmartPrompt(trip, days), textgen.Options{MaxTokens: 500, Temperature: 0.3})
	if err != nil {
		g.notifier.APIFailure(notify.APITextGeneration, err)
		return g.fallback(trip, samples, err)
	}

	lists, err := ParseSmartList(text)
	if err != nil {
		logrus.WithError(err).WithField("trip_id", trip.ID).Warn("smart list unparseable, using baseline")
		return g.fallback(trip, samples, err)
	}

	content, err := json.Marshal(lists)
	if err != nil {
		return SmartResult{}, fmt.Errorf("encode smart list: %w", err)
	}

	err = g.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("trip_id = ? AND is_auto_generated = ? AND category IN ?", trip.ID, true, smartReplaced).
			Delete(&models.PackingListItem{}).Error
		if err != nil {
			return fmt.Errorf("clear generated items: %w", err)
		}
		for category, items := range lists {
			for _, it := range items {
				row := models.PackingListItem{
					TripID:          trip.ID,
					Name:            it.Name,
					Category:        category,
					Quantity:        it.Quantity,
					IsAutoGenerated: true,
				}
				if _, err := insertIgnore(tx, &row); err != nil {
					return err
				}
			}
		}
		if err := SyncTrip(tx, trip.ID); err != nil {
			return err
		}
		return tx.Create(&models.SmartListRun{
			TripID:  trip.ID,
			Status:  models.SmartListCompleted,
			Content: datatypes.JSON(content),
		}).Error
	})
	if err != nil {
		return SmartResult{}, fmt.Errorf("apply smart list: %w", err)
	}
	return SmartResult{Status: models.SmartListCompleted, Categories: lists}, nil
}

func (g *SmartGenerator) fallback(trip models.Trip, samples []weather.Sample, cause error) (SmartResult, error) {
	if err := GenerateBaseline(g.db, trip, samples); err != nil {
		return SmartResult{}, err
	}
	run := models.SmartListRun{
		TripID:       trip.ID,
		Status:       models.SmartListFallback,
		ErrorMessage: cause.Error(),
	}
	if err := g.db.Create(&run).Error; err != nil {
		return SmartResult{}, fmt.Errorf("record smart list run: %w", err)
	}
	return SmartResult{Status: models.SmartListFallback, Error: cause.Error()}, nil
}

var titleCase = cases.Title(language.English)

// ParseSmartList extracts the outermost JSON object from text and reads it as
// category -> items. Items may be plain strings or {"name", "quantity"}
// objects. Category keys are title-cased and the clothing key is dropped.
func ParseSmartList(text string) (map[string][]SmartItem, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, ErrSmartListFormat
	}

	var raw map[string][]json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSmartListFormat, err)
	}

	out := make(map[string][]SmartItem)
	for key, entries := range raw {
		category := titleCase.String(strings.Join(strings.Fields(key), " "))
		if category == "" || category == models.CategoryClothing {
			continue
		}
		for _, entry := range entries {
			item, ok := parseSmartItem(entry)
			if !ok {
				continue
			}
			out[category] = append(out[category], item)
		}
	}
	return out, nil
}

func parseSmartItem(raw json.RawMessage) (SmartItem, bool) {
	var item SmartItem
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		item.Name = name
	} else if err := json.Unmarshal(raw, &item); err != nil {
		return SmartItem{}, false
	}
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return SmartItem{}, false
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return item, true
}
