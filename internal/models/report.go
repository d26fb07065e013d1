package models

import "time"

// SiteKind distinguishes solar from wind sites in reports
type SiteKind string

const (
	SiteSolar SiteKind = "solar"
	SiteWind  SiteKind = "wind"
)

// SiteReport is the outcome of forecasting a single site
type SiteReport struct {
	Name           string    `json:"name"`
	Kind           SiteKind  `json:"kind"`
	CapacityKW     float64   `json:"capacity_kw"`
	WindowStart    time.Time `json:"window_start"`
	WindowEnd      time.Time `json:"window_end"`
	DataPoints     int       `json:"data_points"`
	TotalKWh       float64   `json:"total_generation_kwh"`
	AverageHourly  float64   `json:"avg_hourly_generation_kwh"`
	AverageDaily   float64   `json:"average_daily_generation_kwh,omitempty"` // solar only
	CapacityFactor float64   `json:"capacity_factor"`

	BaseYearKWh float64            `json:"base_year_generation_kwh,omitempty"`
	Projections []YearlyProjection `json:"yearly_forecasts,omitempty"`

	Error string `json:"error,omitempty"`
}

// Failed reports whether the site could not be forecast
func (r *SiteReport) Failed() bool {
	return r.Error != ""
}

// ForecastDigest collects every site report produced by one agent run
type ForecastDigest struct {
	RunID     string        `json:"run_id"`
	Generated time.Time     `json:"generated"`
	Sites     []*SiteReport `json:"sites"`
	Narrative string        `json:"narrative,omitempty"`
}

// Succeeded returns the number of sites forecast without error
func (d *ForecastDigest) Succeeded() int {
	n := 0
	for _, s := range d.Sites {
		if !s.Failed() {
			n++
		}
	}
	return n
}
