package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires every handler onto the router. Fragment endpoints are
// grouped by the view region they refresh.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)

	r.HandleFunc("/forecast", h.HandleForecast).Methods(http.MethodGet)
	r.HandleFunc("/forecast/chart", h.HandleAQIChart).Methods(http.MethodGet)
	r.HandleFunc("/suggest", h.HandleSuggest).Methods(http.MethodGet)

	r.HandleFunc("/locations", h.HandleSavedLocations).Methods(http.MethodGet)
	r.HandleFunc("/locations", h.HandleAddLocation).Methods(http.MethodPost)
	r.HandleFunc("/locations/{city}", h.HandleRemoveLocation).Methods(http.MethodDelete)
	r.HandleFunc("/locations/weather", h.HandleSavedLocationWeather).Methods(http.MethodGet)

	r.HandleFunc("/vacation", h.HandleVacation).Methods(http.MethodPost)
	r.HandleFunc("/agro", h.HandleAgro).Methods(http.MethodPost)
	r.HandleFunc("/coastal", h.HandleCoastal).Methods(http.MethodPost)
	r.HandleFunc("/hiker", h.HandleHiker).Methods(http.MethodPost)
	r.HandleFunc("/history", h.HandleHistory).Methods(http.MethodPost)

	r.HandleFunc("/pollutants/{name}", h.HandlePollutant).Methods(http.MethodPost)
	r.HandleFunc("/preferences/metrics", h.HandleSaveMetrics).Methods(http.MethodPost)
	r.HandleFunc("/preferences/theme", h.HandleTheme).Methods(http.MethodPost)
	r.HandleFunc("/preferences/alerts", h.HandleAlertPreference).Methods(http.MethodPost)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

func muxVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
