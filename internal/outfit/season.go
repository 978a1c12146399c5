package outfit

import "time"

var northernSeasons = map[time.Month]string{
	time.December:  "winter",
	time.January:   "winter",
	time.February:  "winter",
	time.March:     "spring",
	time.April:     "spring",
	time.May:       "spring",
	time.June:      "summer",
	time.July:      "summer",
	time.August:    "summer",
	time.September: "fall",
	time.October:   "fall",
	time.November:  "fall",
}

// Season returns the season for month at latitude. Latitude 0 counts as
// northern; the southern hemisphere is six months apart.
func Season(month time.Month, latitude float64) string {
	if latitude < 0 {
		month = (month+5)%12 + 1
	}
	return northernSeasons[month]
}
