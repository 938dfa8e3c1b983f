package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

const forecastPrompt = `Provide a detailed weather forecast for %s.
If the location is misspelled or ambiguous (e.g., "Pariis"), correct it to the most likely intended city (e.g., "Paris") and return it as correctedCity.
Include any active weather alerts. If none, return an empty array for alerts.
Provide a short, conversational summary of today's weather.
For the current weather, include the 'feels like' temperature, the UV index value, and the local sunrise and sunset times.
The daily forecast should be for the next 5 days (not including today), providing the specific day of the week (e.g., "Monday", "Tuesday", not "Tomorrow").
Provide a single, friendly, actionable suggestion for the day based on the weather.
Also, provide one weather-related news update or a climate change fact (title and a short snippet).
Finally, suggest 1-2 potential local events or activities suitable for today's weather in the area.
Additionally, provide a detailed Air Quality Index (AQI) analysis. Include the overall AQI value, its category (e.g., 'Good', 'Moderate', 'Unhealthy for Sensitive Groups', 'Unhealthy', 'Very Unhealthy', 'Hazardous'), a relevant health advisory, and a breakdown of major pollutants (PM2.5, PM10, O3, NO2, SO2, CO). For each pollutant, provide its name, value, unit (e.g., µg/m³), its individual quality category, a brief description, and a list of common sources.
Use Celsius for temperature, km/h for wind speed, hPa for pressure, and km for visibility.`

// Forecast fetches the full forecast bundle for a location, which may be a
// city name or "lat, lon" coordinates.
func (c *Client) Forecast(ctx context.Context, location string) (*ForecastResult, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(forecastPrompt, location), schemaFor(&ForecastResult{}))
	if err != nil {
		return nil, err
	}

	var out ForecastResult
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.Forecast.Current.City == "" || len(out.Forecast.Daily) == 0 {
		return nil, fmt.Errorf("forecast for %q: %w", location, ErrIncomplete)
	}
	return &out, nil
}

const simpleForecastPrompt = `For each city in this list: [%s], provide its name ("city"), current temperature in Celsius ("temp"), and a one-word weather condition ("condition"). Return a JSON array of these objects. Ensure every city from the list is present in the response. If you cannot find data for a city, use the city name provided and return null for temp and condition.`

// SimpleForecasts fetches compact forecasts for several cities in one call. An
// empty city list short-circuits to an empty result without touching the API.
func (c *Client) SimpleForecasts(ctx context.Context, cities []string) ([]SimpleForecast, error) {
	if len(cities) == 0 {
		return []SimpleForecast{}, nil
	}

	prompt := fmt.Sprintf(simpleForecastPrompt, strings.Join(cities, ", "))
	raw, err := c.generate(ctx, prompt, schemaFor([]SimpleForecast{}))
	if err != nil {
		return nil, err
	}

	var out []SimpleForecast
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

const vacationPrompt = `Create a detailed vacation itinerary for %s for the dates from %s to %s.
For each day in this range, provide the specific date and day of the week (e.g., "Monday, July 1"), a brief weather summary, the high and low temperatures in Celsius, a one-word weather condition (for icons), and a list of 2-3 weather-appropriate activities.
The activities should be a mix of popular tourist attractions and local experiences.`

// VacationPlan fetches a day-by-day itinerary for an inclusive date range.
func (c *Client) VacationPlan(ctx context.Context, destination, startDate, endDate string) (*VacationPlan, error) {
	prompt := fmt.Sprintf(vacationPrompt, destination, startDate, endDate)
	raw, err := c.generate(ctx, prompt, schemaFor(&VacationPlan{}))
	if err != nil {
		return nil, err
	}

	var out VacationPlan
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.Destination == "" || len(out.Plan) == 0 {
		return nil, fmt.Errorf("vacation plan for %q: %w", destination, ErrIncomplete)
	}
	return &out, nil
}

const agroPrompt = `Based on the current weather forecast for %s, provide a list of 5-7 short, actionable agricultural or gardening tips.
For each tip, classify it into one of the following categories: 'Planting', 'Watering', 'Protection', or 'General'. Each tip should be a concise sentence, ideally under 15 words.
The tips should be relevant for farmers and gardeners in that specific region.`

// AgroTips fetches categorized agricultural tips for a region.
func (c *Client) AgroTips(ctx context.Context, destination string) (*AgroTipSet, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(agroPrompt, destination), schemaFor(&AgroTipSet{}))
	if err != nil {
		return nil, err
	}

	var out AgroTipSet
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.Destination == "" || len(out.Tips) == 0 {
		return nil, fmt.Errorf("agro tips for %q: %w", destination, ErrIncomplete)
	}
	return &out, nil
}

const coastalPrompt = `Provide coastal information for %s. First, determine if this is a coastal location.
If it is NOT a coastal location, set isCoastal to false and omit all other optional fields.
If it IS a coastal location, set isCoastal to true and provide the following:
- A list of today's high tide times.
- A list of today's low tide times.
- The current water temperature in Celsius.
- The current wave height as a string (e.g., "0.5 - 1 meter").
- The current wind speed and direction as a string (e.g., "15 km/h SW").
- A brief, helpful beach safety tip relevant to the conditions.`

// CoastalInfo fetches tide and water conditions. A non-coastal location is a
// normal response with IsCoastal false, not an error.
func (c *Client) CoastalInfo(ctx context.Context, location string) (*CoastalInfo, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(coastalPrompt, location), schemaFor(&CoastalInfo{}))
	if err != nil {
		return nil, err
	}

	var out CoastalInfo
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.LocationName == "" {
		return nil, fmt.Errorf("coastal info for %q: %w", location, ErrIncomplete)
	}
	return &out, nil
}

const hikerPrompt = `Provide specialized weather information for a hiker at %s. First, determine if this is a known mountainous or trekking location.
If it is NOT, set isMountainous to false and omit all other optional fields.
If it IS a mountainous location, set isMountainous to true and provide the following:
- The approximate elevation in meters.
- The current temperature in Celsius.
- The current wind speed in km/h.
- The calculated wind chill ('feels like' temperature) in Celsius.
- The current avalanche risk, categorized as one of: 'Low', 'Moderate', 'Considerable', 'High', 'Extreme'.
- A brief, actionable safety message for hikers based on these conditions.`

// HikerInfo fetches mountain conditions. A non-mountainous location is a
// normal response with IsMountainous false, not an error.
func (c *Client) HikerInfo(ctx context.Context, location string) (*HikerInfo, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(hikerPrompt, location), schemaFor(&HikerInfo{}))
	if err != nil {
		return nil, err
	}

	var out HikerInfo
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.LocationName == "" {
		return nil, fmt.Errorf("hiker info for %q: %w", location, ErrIncomplete)
	}
	return &out, nil
}

const historyPrompt = `Provide historical weather data for %s on the date %s.
Give the high, low, and average temperatures in Celsius.
Provide the total precipitation in millimeters and the average wind speed in km/h.
Also, provide a brief one-sentence summary of the overall weather conditions for that day.
If data for this specific date is unavailable, please indicate that in the summary.`

// HistoricalWeather fetches a past-date summary for one (city, date) pair.
func (c *Client) HistoricalWeather(ctx context.Context, city, date string) (*HistoricalWeather, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(historyPrompt, city, date), schemaFor(&HistoricalWeather{}))
	if err != nil {
		return nil, err
	}

	var out HistoricalWeather
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.Summary == "" {
		return nil, fmt.Errorf("historical weather for %q on %s: %w", city, date, ErrIncomplete)
	}
	return &out, nil
}

const suggestionsPrompt = `Provide a JSON array of 5 location name suggestions for the search query "%s". Include common misspellings.`

// LocationSuggestions fetches autocomplete candidates for a query.
func (c *Client) LocationSuggestions(ctx context.Context, query string) ([]string, error) {
	raw, err := c.generate(ctx, fmt.Sprintf(suggestionsPrompt, query), schemaFor(&locationSuggestions{}))
	if err != nil {
		return nil, err
	}

	var out locationSuggestions
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out.Suggestions == nil {
		return []string{}, nil
	}
	return out.Suggestions, nil
}
