// Package generation turns weather samples into solar and wind energy
// estimates. Everything here is pure: no I/O and no state between calls.
package generation

import (
	"context"
	"fmt"

	"renewable-forecast/internal/models"
)

const (
	// STCTemperature is the panel reference temperature in Celsius
	STCTemperature = 25.0

	// stcIrradiance is the standard test condition irradiance in W/m²
	stcIrradiance = 1000.0

	DefaultPanelEfficiency        = 0.20
	DefaultInverterEfficiency     = 0.95
	DefaultTemperatureCoefficient = -0.004
	DefaultDegradationRate        = 0.005
)

// ResolveSolar fills omitted fields with defaults and rejects configurations
// that cannot describe a real installation.
func ResolveSolar(cfg models.SolarConfig) (models.SolarConfig, error) {
	if cfg.PanelEfficiency == 0 {
		cfg.PanelEfficiency = DefaultPanelEfficiency
	}
	if cfg.InverterEfficiency == 0 {
		cfg.InverterEfficiency = DefaultInverterEfficiency
	}
	if cfg.TemperatureCoefficient == 0 {
		cfg.TemperatureCoefficient = DefaultTemperatureCoefficient
	}
	if cfg.DegradationRate == 0 {
		cfg.DegradationRate = DefaultDegradationRate
	}

	switch {
	case cfg.CapacityKW < 0:
		return cfg, fmt.Errorf("%w: installed capacity %.2f kW is negative", ErrInvalidConfig, cfg.CapacityKW)
	case cfg.PanelEfficiency < 0 || cfg.PanelEfficiency > 1:
		return cfg, fmt.Errorf("%w: panel efficiency %.4f outside [0, 1]", ErrInvalidConfig, cfg.PanelEfficiency)
	case cfg.InverterEfficiency < 0 || cfg.InverterEfficiency > 1:
		return cfg, fmt.Errorf("%w: inverter efficiency %.4f outside [0, 1]", ErrInvalidConfig, cfg.InverterEfficiency)
	case cfg.DegradationRate < 0 || cfg.DegradationRate >= 1:
		return cfg, fmt.Errorf("%w: degradation rate %.4f outside [0, 1)", ErrInvalidConfig, cfg.DegradationRate)
	}
	return cfg, nil
}

// SolarGeneration returns the energy in kWh produced over one hour at the
// given irradiance (W/m²) and ambient temperature (°C). degradation is the
// fraction of original capacity remaining; pass 1 for the current year.
func SolarGeneration(irradiance, tempC, capacityKW, panelEff, inverterEff, tempCoeff, degradation float64) float64 {
	tempFactor := 1 + tempCoeff*(tempC-STCTemperature)
	systemEff := panelEff * inverterEff * tempFactor * degradation
	return nonNegative(irradiance / stcIrradiance * capacityKW * systemEff)
}

// solarInputs resolves missing observations: no irradiance reading means
// darkness, no temperature reading means the reference temperature.
func solarInputs(s models.WeatherSample) (irradiance, tempC float64) {
	irradiance, tempC = 0, STCTemperature
	if s.Irradiance != nil {
		irradiance = *s.Irradiance
	}
	if s.Temperature != nil {
		tempC = *s.Temperature
	}
	return irradiance, tempC
}

// HourlySolar computes one record per sample, in input order, for the
// current year (no degradation).
func HourlySolar(ctx context.Context, samples []models.WeatherSample, cfg models.SolarConfig) ([]models.SolarRecord, error) {
	cfg, err := ResolveSolar(cfg)
	if err != nil {
		return nil, err
	}

	efficiency := Round(cfg.PanelEfficiency*cfg.InverterEfficiency, energyPlaces)

	return mapOrdered(ctx, samples, func(s models.WeatherSample) models.SolarRecord {
		irradiance, tempC := solarInputs(s)
		kwh := SolarGeneration(irradiance, tempC, cfg.CapacityKW,
			cfg.PanelEfficiency, cfg.InverterEfficiency, cfg.TemperatureCoefficient, 1.0)

		return models.SolarRecord{
			Timestamp:        s.Timestamp,
			IrradianceWM2:    irradiance,
			TemperatureC:     tempC,
			GenerationKWh:    Round(kwh, energyPlaces),
			EfficiencyFactor: efficiency,
		}
	})
}

// BaseYearGeneration sums the unrounded hourly output over samples, usually
// a full calendar year, as the starting point for ProjectYearly.
func BaseYearGeneration(ctx context.Context, samples []models.WeatherSample, cfg models.SolarConfig) (float64, error) {
	cfg, err := ResolveSolar(cfg)
	if err != nil {
		return 0, err
	}

	hourly, err := mapOrdered(ctx, samples, func(s models.WeatherSample) float64 {
		irradiance, tempC := solarInputs(s)
		return SolarGeneration(irradiance, tempC, cfg.CapacityKW,
			cfg.PanelEfficiency, cfg.InverterEfficiency, cfg.TemperatureCoefficient, 1.0)
	})
	if err != nil {
		return 0, err
	}

	var total float64
	for _, kwh := range hourly {
		total += kwh
	}
	return total, nil
}
