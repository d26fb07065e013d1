package models

import "time"

// SolarRecord is the PV output for one weather sample
type SolarRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	IrradianceWM2    float64   `json:"solar_radiation_wm2"`
	TemperatureC     float64   `json:"temperature_c"`
	GenerationKWh    float64   `json:"hourly_generation_kwh"`
	EfficiencyFactor float64   `json:"efficiency_factor"` // panel × inverter
}

// WindRecord is the wind farm output for one weather sample
type WindRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	WindSpeed10M  float64   `json:"wind_speed_10m_ms"`
	WindSpeedHub  float64   `json:"wind_speed_hub_ms"`
	GenerationKWh float64   `json:"hourly_generation_kwh"`
}

// SolarStatistics summarises a run of SolarRecords, treating each record as one hour
type SolarStatistics struct {
	TotalKWh         float64 `json:"total_generation_kwh"`
	AverageDailyKWh  float64 `json:"average_daily_generation_kwh"`
	AverageHourlyKWh float64 `json:"avg_hourly_generation_kwh"`
	DataPoints       int     `json:"data_points"`
}

// WindSummary summarises a run of WindRecords
type WindSummary struct {
	TotalKWh         float64 `json:"total_generation_kwh"`
	AverageHourlyKWh float64 `json:"avg_hourly_generation_kwh"`
	DataPoints       int     `json:"data_points"`
}

// YearlyProjection is the degraded output of a PV site for one future year
type YearlyProjection struct {
	Year              int     `json:"year"`
	TotalKWh          float64 `json:"total_generation_kwh"`
	DegradationFactor float64 `json:"degradation_factor"`
	AverageDailyKWh   float64 `json:"average_daily_generation_kwh"`
	CapacityFactor    float64 `json:"capacity_factor"`
}
