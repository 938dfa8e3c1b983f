package dashboard

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"skycast/internal/genai"
)

// View regions whose asynchronous updates are sequenced. A response is applied
// only when its request token is still the latest issued for its region, so a
// slow response can never overwrite a newer one.
const (
	RegionForecast       = "forecast"
	RegionSavedLocations = "saved-locations"
	RegionVacation       = "vacation"
	RegionAgro           = "agro"
	RegionCoastal        = "coastal"
	RegionHiker          = "hiker"
	RegionHistory        = "history"
)

// State holds all mutable session state behind one mutex. Every mutation goes
// through a method here; nothing else in the package touches the fields.
type State struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	latest  map[string]string

	currentCity       string
	current           *genai.ForecastResult
	savedLocations    []string
	visibleMetrics    []string
	selectedPollutant string
	suggestions       map[string][]string
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{
		entropy:        ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		latest:         make(map[string]string),
		savedLocations: make([]string, 0, 8),
		suggestions:    make(map[string][]string),
	}
}

// BeginRequest issues a new token for region and records it as the latest.
// Tokens are monotonic ULIDs, so later requests always compare newer.
func (s *State) BeginRequest(region string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	s.latest[region] = token
	return token
}

// IsLatest reports whether token is still the newest issued for region.
func (s *State) IsLatest(region, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[region] == token
}

// ClearCurrent drops the forecast snapshot at the start of a fetch.
func (s *State) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.selectedPollutant = ""
}

// SetCurrentIfLatest replaces the snapshot only when token is still the newest
// issued for region. Check and assignment happen under one lock, so a newer
// request starting in between cannot be overwritten by a stale response.
func (s *State) SetCurrentIfLatest(region, token, city string, result *genai.ForecastResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[region] != token {
		return false
	}
	s.currentCity = city
	s.current = result
	s.selectedPollutant = ""
	return true
}

func (s *State) CurrentCity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCity
}

func (s *State) Current() *genai.ForecastResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// AddLocation appends city to the saved list. It returns false when the city
// is already present (unique by exact string match).
func (s *State) AddLocation(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, loc := range s.savedLocations {
		if loc == city {
			return false
		}
	}
	s.savedLocations = append(s.savedLocations, city)
	return true
}

// RemoveLocation removes city from the saved list, reporting whether it was
// present.
func (s *State) RemoveLocation(city string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, loc := range s.savedLocations {
		if loc == city {
			s.savedLocations = append(s.savedLocations[:i], s.savedLocations[i+1:]...)
			return true
		}
	}
	return false
}

func (s *State) SetSavedLocations(locations []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedLocations = append(s.savedLocations[:0], locations...)
}

// SavedLocations returns a copy of the ordered saved list.
func (s *State) SavedLocations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.savedLocations))
	copy(out, s.savedLocations)
	return out
}

func (s *State) SetVisibleMetrics(metrics []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visibleMetrics = append(s.visibleMetrics[:0:0], metrics...)
}

func (s *State) VisibleMetrics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.visibleMetrics))
	copy(out, s.visibleMetrics)
	return out
}

// TogglePollutant selects name, or deselects it if it was already selected.
// At most one pollutant detail panel is open at a time. It returns the new
// selection ("" when closed).
func (s *State) TogglePollutant(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedPollutant == name {
		s.selectedPollutant = ""
	} else {
		s.selectedPollutant = name
	}
	return s.selectedPollutant
}

func (s *State) SelectedPollutant() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedPollutant
}

// CachedSuggestions returns the session-cached suggestion list for query.
func (s *State) CachedSuggestions(query string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := s.suggestions[query]
	return list, ok
}

// CacheSuggestions stores suggestions for query. The cache lives for the
// session only and is never persisted.
func (s *State) CacheSuggestions(query string, list []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggestions[query] = list
}
