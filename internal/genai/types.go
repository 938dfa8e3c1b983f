package genai

// ForecastResult is the full payload of one primary forecast query.
type ForecastResult struct {
	Forecast      ForecastBundle `json:"forecast"`
	Summary       string         `json:"summary"`
	CorrectedCity string         `json:"correctedCity,omitempty"`
}

// ForecastBundle aggregates everything the main view renders. It is produced
// by a single generation call; partial bundles are never merged.
type ForecastBundle struct {
	Current     CurrentConditions `json:"current"`
	Daily       []DailyOutlook    `json:"daily"`
	Alerts      []Alert           `json:"alerts"`
	Suggestion  string            `json:"suggestion"`
	News        WeatherNews       `json:"news"`
	LocalEvents []LocalEvent      `json:"localEvents"`
	AQI         AirQuality        `json:"aqi"`
}

type CurrentConditions struct {
	City       string  `json:"city"`
	Temp       float64 `json:"temp"`
	Condition  string  `json:"condition"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	FeelsLike  float64 `json:"feelsLike"`
	UVIndex    float64 `json:"uvIndex"`
	Sunrise    string  `json:"sunrise"`
	Sunset     string  `json:"sunset"`
	Humidity   float64 `json:"humidity"`
	WindSpeed  float64 `json:"windSpeed"`
	Pressure   float64 `json:"pressure"`
	Visibility float64 `json:"visibility"`
}

type DailyOutlook struct {
	Day       string  `json:"day"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Condition string  `json:"condition"`
}

// Alert severity is expected to be Warning, Watch or Advisory but the model
// may return free text; callers normalize it for display.
type Alert struct {
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type WeatherNews struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type LocalEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type AirQuality struct {
	AQIValue       float64     `json:"aqiValue"`
	AQICategory    string      `json:"aqiCategory"`
	HealthAdvisory string      `json:"healthAdvisory"`
	Pollutants     []Pollutant `json:"pollutants"`
}

type Pollutant struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Sources     string  `json:"sources"`
}

// SimpleForecast is the compact city badge used for saved locations. Temp and
// Condition are nullable: the model returns null for cities it cannot place.
type SimpleForecast struct {
	City      string   `json:"city"`
	Temp      *float64 `json:"temp"`
	Condition *string  `json:"condition"`
}

type VacationPlan struct {
	Destination string            `json:"destination"`
	Plan        []VacationDayPlan `json:"plan"`
}

type VacationDayPlan struct {
	Day            string   `json:"day" jsonschema_description:"The day of the week and date, e.g. 'Monday, July 1'."`
	WeatherSummary string   `json:"weatherSummary"`
	High           float64  `json:"high"`
	Low            float64  `json:"low"`
	Condition      string   `json:"condition"`
	Activities     []string `json:"activities"`
}

type AgroTipSet struct {
	Destination string    `json:"destination"`
	Tips        []AgroTip `json:"tips"`
}

// AgroTip category is one of Planting, Watering, Protection or General.
type AgroTip struct {
	Tip      string `json:"tip"`
	Category string `json:"category"`
}

// CoastalInfo carries tide and water conditions. When IsCoastal is false every
// optional field is expected to be absent.
type CoastalInfo struct {
	LocationName string     `json:"locationName"`
	IsCoastal    bool       `json:"isCoastal"`
	Tide         *TideTimes `json:"tide,omitempty"`
	WaterTemp    *float64   `json:"waterTemp,omitempty"`
	WaveHeight   string     `json:"waveHeight,omitempty"`
	Wind         string     `json:"wind,omitempty"`
	SafetyTip    string     `json:"safetyTip,omitempty"`
}

type TideTimes struct {
	HighTide []string `json:"highTide"`
	LowTide  []string `json:"lowTide"`
}

// HikerInfo carries mountain conditions. When IsMountainous is false every
// optional field is expected to be absent.
type HikerInfo struct {
	LocationName  string   `json:"locationName"`
	IsMountainous bool     `json:"isMountainous"`
	Elevation     *float64 `json:"elevation,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	WindSpeed     *float64 `json:"windSpeed,omitempty"`
	WindChill     *float64 `json:"windChill,omitempty"`
	AvalancheRisk string   `json:"avalancheRisk,omitempty"`
	SafetyMessage string   `json:"safetyMessage,omitempty"`
}

type HistoricalWeather struct {
	City          string  `json:"city"`
	Date          string  `json:"date"`
	HighTemp      float64 `json:"highTemp"`
	LowTemp       float64 `json:"lowTemp"`
	AvgTemp       float64 `json:"avgTemp"`
	Precipitation float64 `json:"precipitation"` // mm
	WindSpeed     float64 `json:"windSpeed"`     // km/h
	Summary       string  `json:"summary"`
}

type locationSuggestions struct {
	Suggestions []string `json:"suggestions"`
}
