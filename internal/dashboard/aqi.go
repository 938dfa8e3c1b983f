package dashboard

import (
	"math"
	"strings"

	"skycast/internal/genai"
)

// NormalizationMax returns the reference maximum used to scale a pollutant's
// bar. The values are the upper bounds of the Moderate AQI band for each
// pollutant.
func NormalizationMax(pollutant string) float64 {
	switch strings.ToUpper(pollutant) {
	case "PM2.5":
		return 35.4
	case "PM10":
		return 154
	case "O3":
		return 70 // ppb, 8-hour
	case "NO2":
		return 100 // ppb, 1-hour
	case "SO2":
		return 75 // ppb, 1-hour
	case "CO":
		return 9.4 // ppm, 8-hour
	default:
		return 150
	}
}

// BarHeight converts a pollutant value into a bar height percentage, clamped
// to 0-100. Scaling is purely visual; the displayed value is never clamped.
func BarHeight(p genai.Pollutant) float64 {
	height := (p.Value / NormalizationMax(p.Name)) * 100
	return math.Max(0, math.Min(100, height))
}

// The gauge is an SVG circle of radius 50.
const gaugeRadius = 50.0

// GaugeCircumference returns the stroke length of the full gauge ring.
func GaugeCircumference() float64 {
	return 2 * math.Pi * gaugeRadius
}

// GaugeOffset returns the stroke-dashoffset for an AQI value. The value is
// capped at 301 for the ring only; the number shown next to it is not.
func GaugeOffset(aqiValue float64) float64 {
	circumference := GaugeCircumference()
	capped := math.Min(aqiValue, 301)
	return circumference - (capped/301)*circumference
}

// AQIColorVar maps an AQI category to its CSS color variable.
func AQIColorVar(category string) string {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-") {
	case "good":
		return "--aqi-color-good"
	case "moderate":
		return "--aqi-color-moderate"
	case "unhealthy-for-sensitive-groups":
		return "--aqi-color-unhealthy-sensitive"
	case "unhealthy":
		return "--aqi-color-unhealthy"
	case "very-unhealthy":
		return "--aqi-color-very-unhealthy"
	case "hazardous":
		return "--aqi-color-hazardous"
	default:
		return "--text-secondary-color"
	}
}

// PollutantCategoryClass converts a pollutant category into its CSS class.
func PollutantCategoryClass(category string) string {
	category = strings.TrimSpace(strings.ToLower(category))
	if category == "" {
		return ""
	}
	return "pollutant-category-" + strings.ReplaceAll(category, " ", "-")
}
