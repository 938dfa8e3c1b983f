package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"skycast/internal/dashboard"
	"skycast/internal/genai"
)

// stubGenerator returns canned results; fields left nil use a benign default.
type stubGenerator struct {
	forecastErr error
	historyErr  error
	coastal     *genai.CoastalInfo
	hiker       *genai.HikerInfo
}

func (s *stubGenerator) Forecast(ctx context.Context, location string) (*genai.ForecastResult, error) {
	if s.forecastErr != nil {
		return nil, s.forecastErr
	}
	return &genai.ForecastResult{
		Forecast: genai.ForecastBundle{
			Current: genai.CurrentConditions{City: "Paris", Temp: 21, Condition: "Cloudy", Sunrise: "06:42", Sunset: "20:51"},
			Daily:   []genai.DailyOutlook{{Day: "Monday", High: 24, Low: 15, Condition: "Sunny"}},
			News:    genai.WeatherNews{Title: "Heat wave", Snippet: "Warmer than average."},
			AQI: genai.AirQuality{AQIValue: 42, AQICategory: "Good", Pollutants: []genai.Pollutant{
				{Name: "PM2.5", Value: 10, Unit: "µg/m³", Category: "Good"},
			}},
		},
		Summary:       "Mild.",
		CorrectedCity: "Paris",
	}, nil
}

func (s *stubGenerator) SimpleForecasts(ctx context.Context, cities []string) ([]genai.SimpleForecast, error) {
	return []genai.SimpleForecast{}, nil
}

func (s *stubGenerator) VacationPlan(ctx context.Context, destination, startDate, endDate string) (*genai.VacationPlan, error) {
	return &genai.VacationPlan{Destination: destination, Plan: []genai.VacationDayPlan{{Day: "Monday, July 6", Condition: "Sunny"}}}, nil
}

func (s *stubGenerator) AgroTips(ctx context.Context, destination string) (*genai.AgroTipSet, error) {
	return &genai.AgroTipSet{Destination: destination, Tips: []genai.AgroTip{{Tip: "Mulch beds.", Category: "General"}}}, nil
}

func (s *stubGenerator) CoastalInfo(ctx context.Context, location string) (*genai.CoastalInfo, error) {
	if s.coastal != nil {
		return s.coastal, nil
	}
	return &genai.CoastalInfo{LocationName: location, IsCoastal: false}, nil
}

func (s *stubGenerator) HikerInfo(ctx context.Context, location string) (*genai.HikerInfo, error) {
	if s.hiker != nil {
		return s.hiker, nil
	}
	return &genai.HikerInfo{LocationName: location, IsMountainous: false}, nil
}

func (s *stubGenerator) HistoricalWeather(ctx context.Context, city, date string) (*genai.HistoricalWeather, error) {
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return &genai.HistoricalWeather{City: city, Date: date, Summary: "Cold and clear."}, nil
}

func (s *stubGenerator) LocationSuggestions(ctx context.Context, query string) ([]string, error) {
	return []string{"Paris", "Parma"}, nil
}

type stubPrefs struct {
	values map[string]string
	lists  map[string][]string
}

func newStubPrefs() *stubPrefs {
	return &stubPrefs{values: map[string]string{}, lists: map[string][]string{}}
}

func (p *stubPrefs) Get(key string) (string, bool, error) {
	v, ok := p.values[key]
	return v, ok, nil
}

func (p *stubPrefs) Set(key, value string) error {
	p.values[key] = value
	return nil
}

func (p *stubPrefs) GetStrings(key string) ([]string, bool, error) {
	v, ok := p.lists[key]
	return v, ok, nil
}

func (p *stubPrefs) SetStrings(key string, values []string) error {
	p.lists[key] = append([]string(nil), values...)
	return nil
}

type stubPinger struct{ err error }

func (p *stubPinger) Ping() error { return p.err }

// newTestHandlers builds handlers against the repo's real templates.
func newTestHandlers(t *testing.T, gen dashboard.Generator) *Handlers {
	t.Helper()
	svc, err := dashboard.NewService(gen, newStubPrefs())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	h := New(svc, nil)
	h.templates, err = template.New("skycast").Funcs(TemplateFuncs()).ParseGlob("../../templates/*.html")
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return h
}

func postForm(h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	h.HandleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK, got %v", resp.StatusCode)
	}
	if got := w.Body.String(); !strings.Contains(got, "no_store") {
		t.Errorf("expected no_store without a pinger, got %s", got)
	}
}

func TestHandleHealthDegraded(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})
	h.prefs = &stubPinger{err: errors.New("closed")}

	w := httptest.NewRecorder()
	h.HandleHealth(w, httptest.NewRequest("GET", "/health", nil))

	if got := w.Body.String(); !strings.Contains(got, "degraded") {
		t.Errorf("expected degraded status, got %s", got)
	}
}

func TestHandleIndex(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "skycast") {
		t.Error("expected the page to render")
	}
}

func TestHandleIndexNotFound(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := httptest.NewRecorder()
	h.HandleIndex(w, httptest.NewRequest("GET", "/notfound", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status NotFound, got %v", w.Code)
	}
}

func TestHandleForecast(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := httptest.NewRecorder()
	h.HandleForecast(w, httptest.NewRequest("GET", "/forecast?location=Pariis", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Paris") {
		t.Error("expected the corrected city in the fragment")
	}
	// The page script reads the corrected city off the save button to update
	// the search input after a misspelled query.
	if !strings.Contains(body, `class="save-city" data-city="Paris"`) {
		t.Error("expected the corrected city carried as a data attribute")
	}
	if !strings.Contains(body, "PM2.5") {
		t.Error("expected the pollutant breakdown in the fragment")
	}
}

func TestHandleForecastMissingLocation(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := httptest.NewRecorder()
	h.HandleForecast(w, httptest.NewRequest("GET", "/forecast", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status BadRequest, got %v", w.Code)
	}
}

func TestHandleForecastRateLimited(t *testing.T) {
	gen := &stubGenerator{forecastErr: errors.New("generation API error: 429 Too Many Requests")}
	h := newTestHandlers(t, gen)

	w := httptest.NewRecorder()
	h.HandleForecast(w, httptest.NewRequest("GET", "/forecast?location=Paris", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected status TooManyRequests, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "wait a moment") {
		t.Error("expected the rate-limit message")
	}
}

func TestHandleAddLocationDuplicate(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	postForm(h.HandleAddLocation, "/locations", url.Values{"city": {"Paris"}})
	w := postForm(h.HandleAddLocation, "/locations", url.Values{"city": {"Paris"}})

	if w.Code != http.StatusConflict {
		t.Errorf("expected status Conflict, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already in your locations") {
		t.Error("expected the duplicate notice")
	}
}

func TestHandleRemoveLocation(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})
	postForm(h.HandleAddLocation, "/locations", url.Values{"city": {"Paris"}})

	req := httptest.NewRequest("DELETE", "/locations/Paris", nil)
	req = mux.SetURLVars(req, map[string]string{"city": "Paris"})
	w := httptest.NewRecorder()
	h.HandleRemoveLocation(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	if strings.Contains(w.Body.String(), `data-city="Paris"`) {
		t.Error("expected Paris removed from the rendered strip")
	}
}

func TestHandleVacationMissingFields(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleVacation, "/vacation", url.Values{"destination": {"Rome"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status BadRequest, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "fill in all fields") {
		t.Error("expected the missing-fields notice")
	}
}

func TestHandleVacationBadDuration(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleVacation, "/vacation", url.Values{
		"destination": {"Rome"}, "start": {"2026-07-06"}, "duration": {"zero"},
	})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status BadRequest, got %v", w.Code)
	}
}

func TestHandleVacationRendersPlan(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleVacation, "/vacation", url.Values{
		"destination": {"Rome"}, "start": {"2026-07-06"}, "duration": {"3"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Monday, July 6") {
		t.Error("expected the itinerary day in the fragment")
	}
}

func TestHandleCoastalNotCoastal(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleCoastal, "/coastal", url.Values{"location": {"Madrid"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not a coastal location") {
		t.Error("expected the not-coastal fragment")
	}
}

func TestHandleHikerMountainous(t *testing.T) {
	elevation := 1035.0
	gen := &stubGenerator{hiker: &genai.HikerInfo{
		LocationName: "Chamonix", IsMountainous: true,
		Elevation: &elevation, AvalancheRisk: "High",
	}}
	h := newTestHandlers(t, gen)

	w := postForm(h.HandleHiker, "/hiker", url.Values{"location": {"Chamonix"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Chamonix") || !strings.Contains(body, "risk-high") {
		t.Errorf("expected mountain fragment with risk class, got %s", body)
	}
}

func TestHandleHistoryFailureCarriesRestoreDelay(t *testing.T) {
	gen := &stubGenerator{historyErr: errors.New("generation API error: 500")}
	h := newTestHandlers(t, gen)

	w := postForm(h.HandleHistory, "/history", url.Values{"city": {"Berlin"}, "date": {"2000-01-01"}})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status InternalServerError, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), `data-restore-after="3000"`) {
		t.Error("expected the restore delay on the error fragment")
	}
}

func TestHandleSuggestShortQuery(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := httptest.NewRecorder()
	h.HandleSuggest(w, httptest.NewRequest("GET", "/suggest?q=pa", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %s", got)
	}
}

func TestHandleSuggest(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := httptest.NewRecorder()
	h.HandleSuggest(w, httptest.NewRequest("GET", "/suggest?q=par", nil))

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %v", ct)
	}
	if !strings.Contains(w.Body.String(), "Parma") {
		t.Errorf("expected suggestions, got %s", w.Body.String())
	}
}

func TestHandleThemeInvalid(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleTheme, "/preferences/theme", url.Values{"theme": {"sepia"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status BadRequest, got %v", w.Code)
	}
}

func TestHandleThemeValid(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleTheme, "/preferences/theme", url.Values{"theme": {"dark"}})

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status NoContent, got %v", w.Code)
	}
}

func TestHandleAlertPreferenceAllowed(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleAlertPreference, "/preferences/alerts", url.Values{"preference": {"allowed"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Thank you") {
		t.Error("expected the confirmation notice")
	}
}

func TestHandleSaveMetricsWithoutSnapshot(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	w := postForm(h.HandleSaveMetrics, "/preferences/metrics", url.Values{"metric": {"humidity", "uvIndex"}})

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status NoContent without a snapshot, got %v", w.Code)
	}
}

func TestHandlePollutantToggle(t *testing.T) {
	h := newTestHandlers(t, &stubGenerator{})

	// Load a snapshot first so the pollutant exists.
	fw := httptest.NewRecorder()
	h.HandleForecast(fw, httptest.NewRequest("GET", "/forecast?location=Paris", nil))
	if fw.Code != http.StatusOK {
		t.Fatalf("forecast setup failed: %v", fw.Code)
	}

	req := httptest.NewRequest("POST", "/pollutants/PM2.5", nil)
	req = mux.SetURLVars(req, map[string]string{"name": "PM2.5"})
	w := httptest.NewRecorder()
	h.HandlePollutant(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "PM2.5") {
		t.Error("expected the pollutant details fragment")
	}

	// Toggling again closes the panel.
	req2 := httptest.NewRequest("POST", "/pollutants/PM2.5", nil)
	req2 = mux.SetURLVars(req2, map[string]string{"name": "PM2.5"})
	w2 := httptest.NewRecorder()
	h.HandlePollutant(w2, req2)

	if w2.Code != http.StatusNoContent {
		t.Errorf("expected status NoContent on re-toggle, got %v", w2.Code)
	}
}
