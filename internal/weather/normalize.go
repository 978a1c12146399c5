package weather

import (
	"fmt"
	"math"
	"time"
)

// Sample is one 3-hour forecast reading. Time carries the forecast
// location's UTC offset so its calendar date is local to the destination.
type Sample struct {
	Time              time.Time `json:"time"`
	FeelsLike         float64   `json:"feels_like"`
	WindSpeed         float64   `json:"wind_speed"`
	Humidity          float64   `json:"humidity"`
	PrecipProbability float64   `json:"pop"`
	CloudCover        float64   `json:"clouds"`
	ConditionCode     int       `json:"condition_code"`
	RainMM            float64   `json:"rain_mm"`
}

// DailySummary is the forecast for one calendar date.
type DailySummary struct {
	Date          time.Time `json:"-"`
	ISODate       string    `json:"iso_date"`
	Weekday       string    `json:"day"`
	DateLabel     string    `json:"date"`
	FeelsLike     float64   `json:"feels_like"`
	Temperature   int       `json:"temperature"`
	WindSpeed     int       `json:"wind_speed_mph"`
	Humidity      int       `json:"humidity_pct"`
	RainChance    int       `json:"rain_chance_pct"`
	CloudCover    int       `json:"cloud_cover_pct"`
	RainMM        float64   `json:"rain_mm"`
	ConditionCode int       `json:"condition_code"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`

	Temp          string `json:"temp"`
	WindLabel     string `json:"wind_speed"`
	HumidityLabel string `json:"humidity"`
	RainLabel     string `json:"rain_chance"`
	CloudLabel    string `json:"cloud_cover"`
}

type condition struct {
	description string
	icon        string
}

var conditionGroups = map[int]condition{
	2: {"Storm", "fa-solid fa-bolt fa-fw"},
	3: {"Drizzle", "fa-solid fa-cloud-rain fa-fw"},
	5: {"Rain", "fa-solid fa-cloud-showers-heavy fa-fw"},
	6: {"Snow", "fa-solid fa-snowflake fa-fw"},
	7: {"Atmosphere", "fa-solid fa-smog fa-fw"},
}

// DescribeCondition maps an OpenWeather condition code to a label and icon.
// Every integer maps to exactly one pair.
func DescribeCondition(code int) (string, string) {
	group := code / 100
	if c, ok := conditionGroups[group]; ok {
		return c.description, c.icon
	}
	if group == 8 {
		switch code % 100 {
		case 0:
			return "Clear", "fa-solid fa-sun"
		case 1, 2:
			return "Partly Cloudy", "fa-solid fa-cloud-sun"
		default:
			return "Cloudy", "fa-solid fa-cloud"
		}
	}
	return "Clear", "fa-solid fa-sun"
}

// InWindow returns the samples dated within [start, end]. Samples are assumed
// to be ascending by time: it skips those before start and stops at the first
// sample past end.
func InWindow(samples []Sample, start, end time.Time) []Sample {
	from, to := dateOf(start), dateOf(end)
	var out []Sample
	for _, s := range samples {
		d := dateOf(s.Time)
		if d.Before(from) {
			continue
		}
		if d.After(to) {
			break
		}
		out = append(out, s)
	}
	return out
}

// Summarize collapses samples into one summary per calendar date within
// [start, end]. When a date has several samples the last one wins.
func Summarize(samples []Sample, start, end time.Time) []DailySummary {
	var days []DailySummary
	for _, s := range InWindow(samples, start, end) {
		summary := summarize(s)
		if n := len(days); n > 0 && days[n-1].Date.Equal(summary.Date) {
			days[n-1] = summary
			continue
		}
		days = append(days, summary)
	}
	return days
}

func summarize(s Sample) DailySummary {
	d := dateOf(s.Time)
	desc, icon := DescribeCondition(s.ConditionCode)
	temp := round(s.FeelsLike)
	wind := round(s.WindSpeed)
	humidity := round(s.Humidity)
	rain := round(s.PrecipProbability * 100)
	clouds := round(s.CloudCover)

	return DailySummary{
		Date:          d,
		ISODate:       d.Format("2006-01-02"),
		Weekday:       d.Format("Mon"),
		DateLabel:     d.Format("Jan 2"),
		FeelsLike:     s.FeelsLike,
		Temperature:   temp,
		WindSpeed:     wind,
		Humidity:      humidity,
		RainChance:    rain,
		CloudCover:    clouds,
		RainMM:        s.RainMM,
		ConditionCode: s.ConditionCode,
		Description:   desc,
		Icon:          icon,
		Temp:          fmt.Sprintf("%d °F", temp),
		WindLabel:     fmt.Sprintf("%d mph", wind),
		HumidityLabel: fmt.Sprintf("%d%%", humidity),
		RainLabel:     fmt.Sprintf("%d%%", rain),
		CloudLabel:    fmt.Sprintf("%d%%", clouds),
	}
}

// dateOf keeps the calendar date of t in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round(f float64) int {
	return int(math.Round(f))
}
