package outfit

import (
	"fmt"
	"strings"
)

// DayContext is what the outfit prompt knows about one day.
type DayContext struct {
	Destination string
	Temperature float64
	Condition   string
	Season      string
	Activities  string
}

// OutfitPrompt asks for a short bulleted outfit list.
func OutfitPrompt(d DayContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest an outfit for a day in %s during %s. ", d.Destination, d.Season)
	fmt.Fprintf(&b, "The weather will be %s with a feels-like temperature of %.0f°F. ", d.Condition, d.Temperature)
	if a := strings.TrimSpace(d.Activities); a != "" {
		fmt.Fprintf(&b, "Planned activities: %s. ", a)
	}
	b.WriteString("List each clothing item or accessory on its own line starting with \"- \". ")
	b.WriteString("Use short item names, no headings and no explanations.")
	return b.String()
}

// CulturalPrompt asks for brief local dress customs.
func CulturalPrompt(destination string) string {
	return fmt.Sprintf(
		"In two or three short bullet points, describe local dress customs or etiquette a visitor to %s should know about.",
		destination,
	)
}
