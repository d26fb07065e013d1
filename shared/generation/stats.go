package generation

import (
	"fmt"

	"renewable-forecast/internal/models"
)

const hoursPerDay = 24

// RequireSamples fails when there is nothing to compute statistics over
func RequireSamples(samples []models.WeatherSample) error {
	if len(samples) == 0 {
		return ErrNoSamples
	}
	return nil
}

// SolarStats totals the records and projects the hourly mean to a day.
// An empty input yields the zero value.
func SolarStats(records []models.SolarRecord) models.SolarStatistics {
	if len(records) == 0 {
		return models.SolarStatistics{}
	}

	var total float64
	for _, r := range records {
		total += r.GenerationKWh
	}
	n := float64(len(records))

	return models.SolarStatistics{
		TotalKWh:         Round(total, energyPlaces),
		AverageDailyKWh:  Round(total/n*hoursPerDay, energyPlaces),
		AverageHourlyKWh: Round(total/n, energyPlaces),
		DataPoints:       len(records),
	}
}

// SummarizeWind totals the records. Scaling to a day is left to the caller.
func SummarizeWind(records []models.WindRecord) models.WindSummary {
	var total float64
	for _, r := range records {
		total += r.GenerationKWh
	}

	summary := models.WindSummary{
		TotalKWh:   Round(total, energyPlaces),
		DataPoints: len(records),
	}
	if len(records) > 0 {
		summary.AverageHourlyKWh = Round(total/float64(len(records)), energyPlaces)
	}
	return summary
}

// CapacityFactor is the ratio of produced energy to what the installation
// would produce at full capacity for the given number of hours. It is 0
// when either capacity or hours is not positive.
func CapacityFactor(totalKWh, capacityKW, hours float64) float64 {
	if capacityKW <= 0 || hours <= 0 {
		return 0
	}
	return totalKWh / (capacityKW * hours)
}

// SolarCapacityFactor is CapacityFactor over a run of hourly records,
// rounded for publishing.
func SolarCapacityFactor(stats models.SolarStatistics, capacityKW float64) float64 {
	return Round(CapacityFactor(stats.TotalKWh, capacityKW, float64(stats.DataPoints)), energyPlaces)
}

// WindCapacityFactor measures the farm against its combined rated output
func WindCapacityFactor(summary models.WindSummary, cfg models.WindConfig) (float64, error) {
	cfg, err := ResolveWind(cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve wind config: %w", err)
	}
	farmKW := cfg.RatedCapacityKW * float64(cfg.Turbines)
	return Round(CapacityFactor(summary.TotalKWh, farmKW, float64(summary.DataPoints)), energyPlaces), nil
}
