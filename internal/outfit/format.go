package outfit

import (
	"fmt"
	"strings"
)

// EnsureBullets returns text unchanged when its first non-blank line is a
// bullet. Otherwise every non-blank line becomes "- line".
func EnsureBullets(text string) string {
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := stripBullet(l); ok {
			return text
		}
		break
	}

	var out []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		out = append(out, "- "+l)
	}
	return strings.Join(out, "\n")
}

// FallbackDescription is stored when outfit text generation fails.
func FallbackDescription(condition string, temperature float64) string {
	return fmt.Sprintf("Default recommendation for %s weather at %.0f°F", condition, temperature)
}
