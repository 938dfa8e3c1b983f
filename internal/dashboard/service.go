package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"skycast/internal/genai"
	"skycast/internal/store"
)

// The fixed set of metric cards the details grid can show.
var AllMetrics = []string{
	"humidity", "windSpeed", "pressure", "visibility",
	"feelsLike", "uvIndex", "sunrise", "sunset",
}

var (
	// ErrMissingField occurs when a required form field is blank. No remote
	// call is made.
	ErrMissingField = errors.New("required field is missing")

	// ErrAlreadySaved occurs when adding a location that is already saved.
	ErrAlreadySaved = errors.New("location is already saved")

	// ErrSuperseded occurs when a response resolves after a newer request was
	// issued for the same region. The result is discarded.
	ErrSuperseded = errors.New("request superseded by a newer one")

	// ErrInvalidDuration occurs when a trip duration is not a positive number
	// of days.
	ErrInvalidDuration = errors.New("duration must be at least 1 day")

	// ErrInvalidPreference occurs when a persisted preference value is not in
	// its allowed set.
	ErrInvalidPreference = errors.New("invalid preference value")
)

// Generator is the generation capability the dashboard depends on.
type Generator interface {
	Forecast(ctx context.Context, location string) (*genai.ForecastResult, error)
	SimpleForecasts(ctx context.Context, cities []string) ([]genai.SimpleForecast, error)
	VacationPlan(ctx context.Context, destination, startDate, endDate string) (*genai.VacationPlan, error)
	AgroTips(ctx context.Context, destination string) (*genai.AgroTipSet, error)
	CoastalInfo(ctx context.Context, location string) (*genai.CoastalInfo, error)
	HikerInfo(ctx context.Context, location string) (*genai.HikerInfo, error)
	HistoricalWeather(ctx context.Context, city, date string) (*genai.HistoricalWeather, error)
	LocationSuggestions(ctx context.Context, query string) ([]string, error)
}

// Preferences is the durable key-value storage the dashboard persists to.
type Preferences interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	GetStrings(key string) ([]string, bool, error)
	SetStrings(key string, values []string) error
}

// Service owns the session state and sequences calls to the generation
// client. Handlers validate nothing beyond presence; everything else lives
// here.
type Service struct {
	gen   Generator
	prefs Preferences
	state *State
}

// NewService creates the service and loads persisted preferences into the
// session state. A missing visibleMetrics key defaults to all metrics.
func NewService(gen Generator, prefs Preferences) (*Service, error) {
	s := &Service{
		gen:   gen,
		prefs: prefs,
		state: NewState(),
	}

	metrics, ok, err := prefs.GetStrings(store.KeyVisibleMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric preferences: %w", err)
	}
	if !ok {
		metrics = append([]string(nil), AllMetrics...)
	}
	s.state.SetVisibleMetrics(metrics)

	saved, ok, err := prefs.GetStrings(store.KeySavedLocations)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved locations: %w", err)
	}
	if ok {
		s.state.SetSavedLocations(saved)
	}

	return s, nil
}

// State exposes the session state for read access by handlers.
func (s *Service) State() *State {
	return s.state
}

// Forecast fetches the full bundle for location and replaces the current
// snapshot. The returned city reflects any misspelling correction the model
// applied.
func (s *Service) Forecast(ctx context.Context, location string) (*genai.ForecastResult, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrMissingField
	}

	token := s.state.BeginRequest(RegionForecast)
	s.state.ClearCurrent()

	result, err := s.gen.Forecast(ctx, location)
	if err != nil {
		return nil, err
	}

	city := result.CorrectedCity
	if city == "" {
		city = result.Forecast.Current.City
	}
	if !s.state.SetCurrentIfLatest(RegionForecast, token, city, result) {
		return nil, ErrSuperseded
	}
	return result, nil
}

// SavedLocationWeather fetches compact forecasts for every saved location in
// one batch call. With no saved locations it returns an empty slice without a
// remote call.
func (s *Service) SavedLocationWeather(ctx context.Context) ([]genai.SimpleForecast, error) {
	token := s.state.BeginRequest(RegionSavedLocations)
	forecasts, err := s.gen.SimpleForecasts(ctx, s.state.SavedLocations())
	if err != nil {
		return nil, err
	}
	if !s.state.IsLatest(RegionSavedLocations, token) {
		return nil, ErrSuperseded
	}
	return forecasts, nil
}

// AddLocation saves a city, persisting the list immediately.
func (s *Service) AddLocation(city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return ErrMissingField
	}
	if !s.state.AddLocation(city) {
		return ErrAlreadySaved
	}
	return s.prefs.SetStrings(store.KeySavedLocations, s.state.SavedLocations())
}

// RemoveLocation deletes a city from the saved list, persisting immediately.
// Removing an unknown city is a no-op.
func (s *Service) RemoveLocation(city string) error {
	if !s.state.RemoveLocation(city) {
		return nil
	}
	return s.prefs.SetStrings(store.KeySavedLocations, s.state.SavedLocations())
}

func (s *Service) SavedLocations() []string {
	return s.state.SavedLocations()
}

// IsSaved reports whether city is in the saved list.
func (s *Service) IsSaved(city string) bool {
	for _, loc := range s.state.SavedLocations() {
		if loc == city {
			return true
		}
	}
	return false
}

// VacationEndDate computes the inclusive end of a trip: a 3-day trip starting
// on D ends on D+2.
func VacationEndDate(start time.Time, durationDays int) time.Time {
	return start.AddDate(0, 0, durationDays-1)
}

// Vacation fetches an itinerary for durationDays starting at startDate
// (YYYY-MM-DD). All fields are required; a non-positive duration is rejected
// locally.
func (s *Service) Vacation(ctx context.Context, destination, startDate string, durationDays int) (*genai.VacationPlan, error) {
	destination = strings.TrimSpace(destination)
	startDate = strings.TrimSpace(startDate)
	if destination == "" || startDate == "" {
		return nil, ErrMissingField
	}
	if durationDays < 1 {
		return nil, ErrInvalidDuration
	}

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	endDate := VacationEndDate(start, durationDays).Format("2006-01-02")

	token := s.state.BeginRequest(RegionVacation)
	plan, err := s.gen.VacationPlan(ctx, destination, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if !s.state.IsLatest(RegionVacation, token) {
		return nil, ErrSuperseded
	}
	return plan, nil
}

// AgroTips fetches categorized tips for a region.
func (s *Service) AgroTips(ctx context.Context, destination string) (*genai.AgroTipSet, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, ErrMissingField
	}

	token := s.state.BeginRequest(RegionAgro)
	tips, err := s.gen.AgroTips(ctx, destination)
	if err != nil {
		return nil, err
	}
	if !s.state.IsLatest(RegionAgro, token) {
		return nil, ErrSuperseded
	}
	return tips, nil
}

// Coastal fetches tide and water conditions. IsCoastal false in the result is
// a normal outcome, routed by the caller to the not-applicable view.
func (s *Service) Coastal(ctx context.Context, location string) (*genai.CoastalInfo, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrMissingField
	}

	token := s.state.BeginRequest(RegionCoastal)
	info, err := s.gen.CoastalInfo(ctx, location)
	if err != nil {
		return nil, err
	}
	if !s.state.IsLatest(RegionCoastal, token) {
		return nil, ErrSuperseded
	}
	return info, nil
}

// Hiker fetches mountain conditions, with the same not-applicable routing as
// Coastal.
func (s *Service) Hiker(ctx context.Context, location string) (*genai.HikerInfo, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrMissingField
	}

	token := s.state.BeginRequest(RegionHiker)
	info, err := s.gen.HikerInfo(ctx, location)
	if err != nil {
		return nil, err
	}
	if !s.state.IsLatest(RegionHiker, token) {
		return nil, ErrSuperseded
	}
	return info, nil
}

// History fetches a past-date summary for city. Results are not cached.
func (s *Service) History(ctx context.Context, city, date string) (*genai.HistoricalWeather, error) {
	city = strings.TrimSpace(city)
	date = strings.TrimSpace(date)
	if city == "" || date == "" {
		return nil, ErrMissingField
	}

	token := s.state.BeginRequest(RegionHistory)
	record, err := s.gen.HistoricalWeather(ctx, city, date)
	if err != nil {
		return nil, err
	}
	if !s.state.IsLatest(RegionHistory, token) {
		return nil, ErrSuperseded
	}
	return record, nil
}

// minSuggestQuery is the shortest query that triggers a suggestion request.
const minSuggestQuery = 3

// Suggest returns autocomplete candidates for query. Queries shorter than
// three characters return nil without a remote call; results are cached for
// the session so converging edits avoid duplicate calls.
func (s *Service) Suggest(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSuggestQuery {
		return nil, nil
	}

	if cached, ok := s.state.CachedSuggestions(query); ok {
		return cached, nil
	}

	suggestions, err := s.gen.LocationSuggestions(ctx, query)
	if err != nil {
		return nil, err
	}
	s.state.CacheSuggestions(query, suggestions)
	return suggestions, nil
}

func (s *Service) VisibleMetrics() []string {
	return s.state.VisibleMetrics()
}

// SetVisibleMetrics saves the metric subset, dropping unknown names, and
// persists it immediately.
func (s *Service) SetVisibleMetrics(metrics []string) error {
	known := make(map[string]bool, len(AllMetrics))
	for _, m := range AllMetrics {
		known[m] = true
	}

	filtered := make([]string, 0, len(metrics))
	for _, m := range metrics {
		if known[m] {
			filtered = append(filtered, m)
		} else {
			log.Printf("dashboard: ignoring unknown metric %q", m)
		}
	}

	s.state.SetVisibleMetrics(filtered)
	return s.prefs.SetStrings(store.KeyVisibleMetrics, filtered)
}

// TogglePollutant opens the detail panel for name, or closes it when already
// open. It returns the pollutant to render, or nil when the panel closes or
// no snapshot is loaded.
func (s *Service) TogglePollutant(name string) *genai.Pollutant {
	selected := s.state.TogglePollutant(name)
	if selected == "" {
		return nil
	}

	current := s.state.Current()
	if current == nil {
		return nil
	}
	for i := range current.Forecast.AQI.Pollutants {
		if current.Forecast.AQI.Pollutants[i].Name == selected {
			return &current.Forecast.AQI.Pollutants[i]
		}
	}
	return nil
}

// Theme returns the persisted theme, or "" when the user never chose one (the
// page then follows the system color-scheme preference).
func (s *Service) Theme() string {
	theme, ok, err := s.prefs.Get(store.KeyTheme)
	if err != nil {
		log.Printf("dashboard: failed to read theme: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return theme
}

func (s *Service) SetTheme(theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("theme %q: %w", theme, ErrInvalidPreference)
	}
	return s.prefs.Set(store.KeyTheme, theme)
}

// AlertPreference returns "allowed", "denied" or "" when unset. The banner is
// shown only while unset.
func (s *Service) AlertPreference() string {
	pref, ok, err := s.prefs.Get(store.KeyAlertPreference)
	if err != nil {
		log.Printf("dashboard: failed to read alert preference: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return pref
}

func (s *Service) SetAlertPreference(pref string) error {
	if pref != "allowed" && pref != "denied" {
		return fmt.Errorf("alert preference %q: %w", pref, ErrInvalidPreference)
	}
	return s.prefs.Set(store.KeyAlertPreference, pref)
}
