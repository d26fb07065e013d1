package generation

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"renewable-forecast/internal/models"
)

const (
	// DefaultShearExponent is the power-law exponent for open terrain
	DefaultShearExponent = 0.2

	// referenceHeightM is the anemometer height of the supplied wind speed
	referenceHeightM = 10.0
)

// ResolveWind fills omitted fields with defaults and rejects configurations
// whose power curve would be meaningless.
func ResolveWind(cfg models.WindConfig) (models.WindConfig, error) {
	if cfg.ShearExponent == 0 {
		cfg.ShearExponent = DefaultShearExponent
	}

	switch {
	case cfg.Turbines < 0:
		return cfg, fmt.Errorf("%w: turbine count %d is negative", ErrInvalidConfig, cfg.Turbines)
	case cfg.RatedCapacityKW < 0:
		return cfg, fmt.Errorf("%w: rated capacity %.2f kW is negative", ErrInvalidConfig, cfg.RatedCapacityKW)
	case cfg.CutInMS < 0:
		return cfg, fmt.Errorf("%w: cut-in speed %.2f m/s is negative", ErrInvalidConfig, cfg.CutInMS)
	case cfg.CutInMS > cfg.RatedMS || cfg.RatedMS > cfg.CutOutMS:
		return cfg, fmt.Errorf("%w: expected cut-in <= rated <= cut-out, got %.2f / %.2f / %.2f m/s",
			ErrInvalidConfig, cfg.CutInMS, cfg.RatedMS, cfg.CutOutMS)
	}

	if cfg.Turbines == 0 {
		cfg.Turbines = 1
	}
	return cfg, nil
}

// AdjustWindToHeight extrapolates a 10 m wind speed to hub height with the
// power-law profile. A missing speed is calm air; a non-positive hub height
// passes the measurement through.
func AdjustWindToHeight(speed *float64, hubHeightM, shear float64) float64 {
	if speed == nil {
		return 0
	}
	if hubHeightM <= 0 {
		return nonNegative(*speed)
	}
	return nonNegative(*speed * math.Pow(hubHeightM/referenceHeightM, shear))
}

// PowerCurve returns the output in kW of a single turbine at hub wind speed v.
// Between cut-in and rated the output follows the cubic
//
//	P = P_r × (v³ − v_in³) / (v_r³ − v_in³)
//
// evaluated in decimal arithmetic so values near cut-in don't suffer from
// cancellation. When cut-in equals rated the curve is a step to P_r.
func PowerCurve(v, cutIn, rated, cutOut, ratedKW float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	speed := decimal.NewFromFloat(v)
	vIn := decimal.NewFromFloat(cutIn)
	vR := decimal.NewFromFloat(rated)
	vOut := decimal.NewFromFloat(cutOut)
	pR := decimal.NewFromFloat(ratedKW)

	if speed.LessThan(vIn) || speed.GreaterThan(vOut) {
		return 0
	}
	if speed.GreaterThan(vR) {
		return ratedKW
	}

	cutInCubed := cube(vIn)
	denom := cube(vR).Sub(cutInCubed)
	if denom.IsZero() {
		return ratedKW
	}

	p := pR.Mul(cube(speed).Sub(cutInCubed)).Div(denom)
	if p.IsNegative() {
		return 0
	}
	return p.InexactFloat64()
}

func cube(d decimal.Decimal) decimal.Decimal {
	return d.Mul(d).Mul(d)
}

// WindGeneration returns the hub height wind speed and the energy in kWh
// produced over one hour by every turbine of a resolved configuration.
func WindGeneration(speed10m *float64, cfg models.WindConfig) (hubSpeed, kwh float64) {
	hubSpeed = AdjustWindToHeight(speed10m, cfg.HubHeightM, cfg.ShearExponent)
	turbines := cfg.Turbines
	if turbines < 1 {
		turbines = 1
	}
	kwh = PowerCurve(hubSpeed, cfg.CutInMS, cfg.RatedMS, cfg.CutOutMS, cfg.RatedCapacityKW) * float64(turbines)
	return hubSpeed, kwh
}

// HourlyWind computes one record per sample, in input order
func HourlyWind(ctx context.Context, samples []models.WeatherSample, cfg models.WindConfig) ([]models.WindRecord, error) {
	cfg, err := ResolveWind(cfg)
	if err != nil {
		return nil, err
	}

	return mapOrdered(ctx, samples, func(s models.WeatherSample) models.WindRecord {
		var raw float64
		if s.WindSpeed != nil {
			raw = *s.WindSpeed
		}
		hub, kwh := WindGeneration(&raw, cfg)

		return models.WindRecord{
			Timestamp:     s.Timestamp,
			WindSpeed10M:  raw,
			WindSpeedHub:  Round(hub, speedPlaces),
			GenerationKWh: Round(kwh, energyPlaces),
		}
	})
}
