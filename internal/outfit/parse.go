package outfit

import (
	"strings"

	"tripwise/internal/models"
)

// ParsedItem is one garment read from an outfit description.
type ParsedItem struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{models.OutfitTop, []string{"shirt", "t-shirt", "blouse", "tee", "sweater", "hoodie", "tank top", "polo", "cardigan", "turtleneck", "tunic", "top"}},
	{models.OutfitBottom, []string{"pants", "jeans", "shorts", "skirt", "trousers", "leggings", "chinos", "slacks"}},
	{models.OutfitOuterwear, []string{"jacket", "coat", "raincoat", "windbreaker", "parka", "blazer", "vest", "poncho"}},
	{models.OutfitFootwear, []string{"shoes", "boots", "sneakers", "sandals", "loafers", "heels", "flip-flops", "slippers"}},
	{models.OutfitAccessory, []string{"hat", "cap", "scarf", "gloves", "sunglasses", "belt", "umbrella", "bag", "watch", "jewelry", "beanie"}},
}

var bulletMarkers = []string{"-", "•", "*"}

// Categorize returns the first category whose keyword appears in name,
// ignoring case, or "other".
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, w := range c.words {
			if strings.Contains(lower, w) {
				return c.category
			}
		}
	}
	return models.OutfitOther
}

func stripBullet(line string) (string, bool) {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return strings.TrimSpace(strings.TrimPrefix(line, m)), true
		}
	}
	return "", false
}

// ParseItems reads bulleted lines from description as items, in source
// order. Headings (ending in ':') and cultural notes are skipped. It never
// fails; text without bullets yields no items.
func ParseItems(description string) []ParsedItem {
	var items []ParsedItem
	for _, line := range strings.Split(description, "\n") {
		name, ok := stripBullet(strings.TrimSpace(line))
		if !ok || name == "" || strings.HasSuffix(name, ":") {
			continue
		}
		if strings.Contains(strings.ToLower(name), "cultural") {
			continue
		}
		items = append(items, ParsedItem{Name: name, Category: Categorize(name)})
	}
	return items
}
