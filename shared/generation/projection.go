package generation

import (
	"fmt"
	"time"

	"renewable-forecast/internal/models"
)

const (
	daysPerYear  = 365
	hoursPerYear = 8760
)

// ProjectYearly compounds degradation onto a base-year total for each of the
// following years. Year labels start at startYear+1; leap years are ignored.
func ProjectYearly(baseKWh float64, years int, capacityKW, rate float64, startYear int) ([]models.YearlyProjection, error) {
	if years < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, years)
	}
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("%w: degradation rate %.4f outside [0, 1)", ErrInvalidConfig, rate)
	}

	projections := make([]models.YearlyProjection, 0, years)
	for y := 1; y <= years; y++ {
		factor := DegradationFactor(y, rate)
		total := baseKWh * factor

		projections = append(projections, models.YearlyProjection{
			Year:              startYear + y,
			TotalKWh:          Round(total, annualPlaces),
			DegradationFactor: Round(factor, energyPlaces),
			AverageDailyKWh:   Round(total/daysPerYear, annualPlaces),
			CapacityFactor:    Round(CapacityFactor(total, capacityKW, hoursPerYear), energyPlaces),
		})
	}
	return projections, nil
}

// ProjectYearlyFromNow labels projections from the current calendar year
func ProjectYearlyFromNow(baseKWh float64, years int, capacityKW, rate float64) ([]models.YearlyProjection, error) {
	return ProjectYearly(baseKWh, years, capacityKW, rate, time.Now().Year())
}
