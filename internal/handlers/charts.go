package handlers

import (
	"log"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"skycast/internal/dashboard"
)

// HandleAQIChart renders the pollutant bar chart for the current snapshot.
// Bars are scaled against each pollutant's normalization maximum so that
// different units share one axis.
func (h *Handlers) HandleAQIChart(w http.ResponseWriter, r *http.Request) {
	current := h.svc.State().Current()
	if current == nil || len(current.Forecast.AQI.Pollutants) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	aqi := current.Forecast.AQI

	names := make([]string, 0, len(aqi.Pollutants))
	values := make([]opts.BarData, 0, len(aqi.Pollutants))
	for _, p := range aqi.Pollutants {
		names = append(names, p.Name)
		values = append(values, opts.BarData{
			Name:  p.Name,
			Value: dashboard.BarHeight(p),
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Pollutant Levels",
			Width:     "600px",
			Height:    "320px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Pollutant Levels",
			Subtitle: "relative to the unhealthy threshold",
		}),
	)
	bar.SetXAxis(names).AddSeries("pollutants", values)

	if err := bar.Render(w); err != nil {
		log.Printf("Chart render error: %v", err)
	}
}
