package handlers

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"

	"skycast/internal/dashboard"
	"skycast/internal/genai"
)

// User-facing messages. The rate-limit message is chosen purely by detecting
// the 429 status code in the error text.
const (
	msgRateLimited     = "Too many requests. Please wait a moment and try again."
	msgForecastFailed  = "Could not fetch the forecast. The city may not exist or the service is unavailable. Please try another city."
	msgVacationFailed  = "Could not create a vacation plan. Please try a different destination or check your connection."
	msgAgroFailed      = "Could not get agro tips. Please try a different location or check your connection."
	msgCoastalFailed   = "Could not fetch coastal information. Please try again."
	msgHikerFailed     = "Could not fetch hiker information. Please try again."
	msgHistoryFailed   = "Could not retrieve historical data for that date. Please try another."
	msgVacationFields  = "Please fill in all fields: destination, start date, and duration."
	msgBadDuration     = "Duration must be a number and at least 1 day."
	msgMissingLocation = "Please provide a location."
)

// historyRestoreMs is how long the history error stays up before the form is
// restored. The fragment carries it as a data attribute for the page script.
const historyRestoreMs = 3000

// Pinger is the health surface of the preference store.
type Pinger interface {
	Ping() error
}

// Handlers holds dependencies for HTTP handlers. Every dynamic view region
// maps to one handler producing an HTML fragment.
type Handlers struct {
	svc       *dashboard.Service
	prefs     Pinger
	templates *template.Template
}

// New creates a Handlers instance and parses the page templates.
func New(svc *dashboard.Service, prefs Pinger) *Handlers {
	tmpl, err := template.New("skycast").Funcs(TemplateFuncs()).ParseGlob("templates/*.html")
	if err != nil {
		log.Printf("Warning: Failed to parse templates: %v", err)
		tmpl = nil
	}

	return &Handlers{
		svc:       svc,
		prefs:     prefs,
		templates: tmpl,
	}
}

// TemplateFuncs exposes the dashboard's display mappings to the templates.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"weatherIcon":        dashboard.ConditionIcon,
		"agroIcon":           dashboard.AgroTipIcon,
		"riskClass":          dashboard.AvalancheRiskClass,
		"severityClass":      dashboard.SeverityClass,
		"barHeight":          dashboard.BarHeight,
		"aqiColor":           dashboard.AQIColorVar,
		"pollutantClass":     dashboard.PollutantCategoryClass,
		"gaugeOffset":        dashboard.GaugeOffset,
		"gaugeCircumference": dashboard.GaugeCircumference,
	}
}

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	if h.templates == nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template error (%s): %v", name, err)
	}
}

type noticeData struct {
	Message string
}

type errorData struct {
	Message       string
	TryAgain      bool
	RestoreAfter  int
	RestoreRegion string
}

// renderFailure converts a generation error into the region's error fragment,
// picking the rate-limit message when the error text carries a 429.
func (h *Handlers) renderFailure(w http.ResponseWriter, err error, generic string, data errorData) {
	if genai.IsRateLimited(err) {
		w.WriteHeader(http.StatusTooManyRequests)
		data.Message = msgRateLimited
	} else {
		w.WriteHeader(http.StatusInternalServerError)
		data.Message = generic
	}
	h.render(w, "error_fragment", data)
}

type indexData struct {
	Theme           string
	AlertPreference string
	SavedLocations  []string
	AllMetrics      []string
	VisibleMetrics  []string
}

// HandleIndex serves the main page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if h.templates == nil {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<!DOCTYPE html><html><head><title>skycast</title></head><body><h1>skycast</h1><p>Templates not loaded</p></body></html>"))
		return
	}

	h.render(w, "index.html", indexData{
		Theme:           h.svc.Theme(),
		AlertPreference: h.svc.AlertPreference(),
		SavedLocations:  h.svc.SavedLocations(),
		AllMetrics:      dashboard.AllMetrics,
		VisibleMetrics:  h.svc.VisibleMetrics(),
	})
}

// HandleHealth reports liveness and preference-store reachability.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	status := "ok"
	if h.prefs != nil {
		if err := h.prefs.Ping(); err != nil {
			status = "degraded"
		}
	} else {
		status = "no_store"
	}

	w.Write([]byte(`{"status":"` + status + `"}`))
}

// forecastView is what the forecast fragment renders.
type forecastView struct {
	Result  *genai.ForecastResult
	City    string
	Saved   bool
	Metrics []metricCard
}

type metricCard struct {
	Key   string
	Label string
	Icon  string
	Value string
	Unit  string
}

// metricCards builds the details grid, restricted to the visible subset and
// ordered like the fixed metric list.
func metricCards(c genai.CurrentConditions, visible []string) []metricCard {
	shown := make(map[string]bool, len(visible))
	for _, m := range visible {
		shown[m] = true
	}

	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	all := []metricCard{
		{Key: "humidity", Label: "Humidity", Icon: "#icon-humidity", Value: format(c.Humidity), Unit: "%"},
		{Key: "windSpeed", Label: "Wind Speed", Icon: "#icon-wind", Value: format(c.WindSpeed), Unit: " km/h"},
		{Key: "pressure", Label: "Pressure", Icon: "#icon-pressure", Value: format(c.Pressure), Unit: " hPa"},
		{Key: "visibility", Label: "Visibility", Icon: "#icon-visibility", Value: format(c.Visibility), Unit: " km"},
		{Key: "feelsLike", Label: "Feels Like", Icon: "#icon-thermometer", Value: format(c.FeelsLike), Unit: "°C"},
		{Key: "uvIndex", Label: "UV Index", Icon: "#icon-uv", Value: format(c.UVIndex), Unit: ""},
		{Key: "sunrise", Label: "Sunrise", Icon: "#icon-sunrise", Value: c.Sunrise, Unit: ""},
		{Key: "sunset", Label: "Sunset", Icon: "#icon-sunset", Value: c.Sunset, Unit: ""},
	}

	cards := make([]metricCard, 0, len(all))
	for _, card := range all {
		if shown[card.Key] {
			cards = append(cards, card)
		}
	}
	return cards
}

// HandleForecast fetches and renders the primary forecast region. The
// location may be a city name or "lat, lon" from the geolocation flow.
func (h *Handlers) HandleForecast(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgMissingLocation})
		return
	}

	result, err := h.svc.Forecast(r.Context(), location)
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Forecast error: %v", err)
		h.renderFailure(w, err, msgForecastFailed, errorData{})
		return
	}

	city := h.svc.State().CurrentCity()
	h.render(w, "forecast_fragment", forecastView{
		Result:  result,
		City:    city,
		Saved:   h.svc.IsSaved(city),
		Metrics: metricCards(result.Forecast.Current, h.svc.VisibleMetrics()),
	})
}

// HandleSavedLocations renders the saved-locations strip.
func (h *Handlers) HandleSavedLocations(w http.ResponseWriter, r *http.Request) {
	h.render(w, "saved_locations_fragment", h.svc.SavedLocations())
}

type savedWeatherView struct {
	City      string
	Icon      string
	Temp      string
	Available bool
}

// HandleSavedLocationWeather batch-fetches badges for every saved location.
// Null temp or condition renders as a placeholder.
func (h *Handlers) HandleSavedLocationWeather(w http.ResponseWriter, r *http.Request) {
	forecasts, err := h.svc.SavedLocationWeather(r.Context())
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Saved location weather error: %v", err)
		h.renderFailure(w, err, "Could not load saved location weather.", errorData{})
		return
	}

	views := make([]savedWeatherView, 0, len(forecasts))
	for _, f := range forecasts {
		v := savedWeatherView{City: f.City}
		if f.Temp != nil && f.Condition != nil {
			v.Available = true
			v.Icon = dashboard.ConditionIcon(*f.Condition)
			v.Temp = strconv.FormatFloat(*f.Temp, 'f', 0, 64)
		}
		views = append(views, v)
	}
	h.render(w, "saved_weather_fragment", views)
}

// HandleAddLocation saves a city and re-renders the strip. Duplicates produce
// an "already saved" notice and no mutation.
func (h *Handlers) HandleAddLocation(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.FormValue("city"))

	err := h.svc.AddLocation(city)
	switch err {
	case nil:
		h.render(w, "saved_locations_fragment", h.svc.SavedLocations())
	case dashboard.ErrAlreadySaved:
		w.WriteHeader(http.StatusConflict)
		h.render(w, "notice_fragment", noticeData{Message: `"` + city + `" is already in your locations.`})
	case dashboard.ErrMissingField:
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgMissingLocation})
	default:
		log.Printf("Add location error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleRemoveLocation deletes a city from the saved list.
func (h *Handlers) HandleRemoveLocation(w http.ResponseWriter, r *http.Request) {
	city := muxVar(r, "city")
	if err := h.svc.RemoveLocation(city); err != nil {
		log.Printf("Remove location error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render(w, "saved_locations_fragment", h.svc.SavedLocations())
}

// HandleVacation builds the trip itinerary region.
func (h *Handlers) HandleVacation(w http.ResponseWriter, r *http.Request) {
	destination := r.FormValue("destination")
	startDate := r.FormValue("start")
	durationRaw := strings.TrimSpace(r.FormValue("duration"))

	if strings.TrimSpace(destination) == "" || strings.TrimSpace(startDate) == "" || durationRaw == "" {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgVacationFields})
		return
	}
	duration, convErr := strconv.Atoi(durationRaw)
	if convErr != nil || duration < 1 {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgBadDuration})
		return
	}

	plan, err := h.svc.Vacation(r.Context(), destination, startDate, duration)
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Vacation plan error: %v", err)
		h.renderFailure(w, err, msgVacationFailed, errorData{TryAgain: true, RestoreRegion: "vacation"})
		return
	}
	h.render(w, "vacation_fragment", plan)
}

// HandleAgro builds the agricultural tips region.
func (h *Handlers) HandleAgro(w http.ResponseWriter, r *http.Request) {
	tips, err := h.svc.AgroTips(r.Context(), r.FormValue("destination"))
	if err == dashboard.ErrMissingField {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgMissingLocation})
		return
	}
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Agro tips error: %v", err)
		h.renderFailure(w, err, msgAgroFailed, errorData{TryAgain: true, RestoreRegion: "agro"})
		return
	}
	h.render(w, "agro_fragment", tips)
}

// HandleCoastal builds the coastal conditions region. A non-coastal location
// is a successful response routed to the not-coastal branch.
func (h *Handlers) HandleCoastal(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Coastal(r.Context(), r.FormValue("location"))
	if err == dashboard.ErrMissingField {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgMissingLocation})
		return
	}
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Coastal info error: %v", err)
		h.renderFailure(w, err, msgCoastalFailed, errorData{TryAgain: true, RestoreRegion: "coastal"})
		return
	}

	if !info.IsCoastal {
		h.render(w, "coastal_none_fragment", info)
		return
	}
	h.render(w, "coastal_fragment", info)
}

// HandleHiker builds the mountain conditions region, with the same
// not-applicable routing as coastal.
func (h *Handlers) HandleHiker(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Hiker(r.Context(), r.FormValue("location"))
	if err == dashboard.ErrMissingField {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: msgMissingLocation})
		return
	}
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Hiker info error: %v", err)
		h.renderFailure(w, err, msgHikerFailed, errorData{TryAgain: true, RestoreRegion: "hiker"})
		return
	}

	if !info.IsMountainous {
		h.render(w, "hiker_none_fragment", info)
		return
	}
	h.render(w, "hiker_fragment", info)
}

// HandleHistory looks up a past date for the current city. On failure the
// error fragment carries the fixed delay after which the form is restored.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	city := r.FormValue("city")
	if strings.TrimSpace(city) == "" {
		city = h.svc.State().CurrentCity()
	}

	record, err := h.svc.History(r.Context(), city, r.FormValue("date"))
	if err == dashboard.ErrMissingField {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: "Please pick a date."})
		return
	}
	if err == dashboard.ErrSuperseded {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		log.Printf("Historical weather error: %v", err)
		h.renderFailure(w, err, msgHistoryFailed, errorData{
			RestoreAfter:  historyRestoreMs,
			RestoreRegion: "history",
		})
		return
	}
	h.render(w, "history_fragment", record)
}

// HandleSuggest serves location autocomplete as a JSON array. Short queries
// yield an empty list without a generation call.
func (h *Handlers) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.svc.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("Suggest error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	data, err := json.Marshal(suggestions)
	if err != nil {
		log.Printf("JSON encode error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		log.Printf("Response write error: %v", err)
	}
}

// HandleSaveMetrics persists the visible-metric subset from checkbox values
// and re-renders the details grid when a snapshot is loaded.
func (h *Handlers) HandleSaveMetrics(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetVisibleMetrics(r.Form["metric"]); err != nil {
		log.Printf("Save metrics error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	current := h.svc.State().Current()
	if current == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.render(w, "details_grid_fragment", metricCards(current.Forecast.Current, h.svc.VisibleMetrics()))
}

// HandlePollutant toggles the detail panel for one pollutant.
func (h *Handlers) HandlePollutant(w http.ResponseWriter, r *http.Request) {
	pollutant := h.svc.TogglePollutant(muxVar(r, "name"))
	if pollutant == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.render(w, "pollutant_details_fragment", pollutant)
}

// HandleTheme persists the light/dark choice.
func (h *Handlers) HandleTheme(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SetTheme(r.FormValue("theme")); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: "Unknown theme."})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAlertPreference records the alert banner decision.
func (h *Handlers) HandleAlertPreference(w http.ResponseWriter, r *http.Request) {
	pref := r.FormValue("preference")
	if err := h.svc.SetAlertPreference(pref); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "notice_fragment", noticeData{Message: "Unknown alert preference."})
		return
	}

	if pref == "allowed" {
		h.render(w, "notice_fragment", noticeData{Message: "Thank you! You will be notified of severe weather alerts."})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
