package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewable-forecast/internal/models"
)

func TestSolarGeneration_ReferenceConditions(t *testing.T) {
	kwh := SolarGeneration(800, 25, 100, 0.20, 0.95, -0.004, 1.0)
	assert.InDelta(t, 15.2, kwh, 1e-9)
}

func TestSolarGeneration_TemperatureDerating(t *testing.T) {
	hot := SolarGeneration(800, 45, 100, 0.20, 0.95, -0.004, 1.0)
	assert.InDelta(t, 15.2*0.92, hot, 1e-9)

	cold := SolarGeneration(800, 5, 100, 0.20, 0.95, -0.004, 1.0)
	assert.Greater(t, cold, 15.2, "panels gain efficiency below the reference temperature")
}

func TestSolarGeneration_NeverNegative(t *testing.T) {
	tests := []struct {
		name       string
		irradiance float64
		tempC      float64
	}{
		{"dark", 0, 25},
		{"extreme heat flips temperature factor", 1000, 400},
		{"negative sensor noise", -5, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kwh := SolarGeneration(tt.irradiance, tt.tempC, 100, 0.20, 0.95, -0.004, 1.0)
			assert.GreaterOrEqual(t, kwh, 0.0)
		})
	}
}

func TestSolarGeneration_Degradation(t *testing.T) {
	fresh := SolarGeneration(800, 25, 100, 0.20, 0.95, -0.004, 1.0)
	aged := SolarGeneration(800, 25, 100, 0.20, 0.95, -0.004, DegradationFactor(10, 0.005))
	assert.InDelta(t, fresh*0.951110, aged, 1e-4)
}

func TestDegradationFactor(t *testing.T) {
	assert.Equal(t, 1.0, DegradationFactor(0, 0.005))
	assert.InDelta(t, 0.995, DegradationFactor(1, 0.005), 1e-12)

	prev := DegradationFactor(0, 0.005)
	for year := 1; year <= 40; year++ {
		f := DegradationFactor(year, 0.005)
		assert.Less(t, f, prev, "year %d", year)
		prev = f
	}
}

func TestResolveSolar_Defaults(t *testing.T) {
	cfg, err := ResolveSolar(models.SolarConfig{CapacityKW: 50})
	require.NoError(t, err)

	assert.Equal(t, DefaultPanelEfficiency, cfg.PanelEfficiency)
	assert.Equal(t, DefaultInverterEfficiency, cfg.InverterEfficiency)
	assert.Equal(t, DefaultTemperatureCoefficient, cfg.TemperatureCoefficient)
	assert.Equal(t, DefaultDegradationRate, cfg.DegradationRate)
	assert.Equal(t, 50.0, cfg.CapacityKW)
}

func TestResolveSolar_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.SolarConfig
	}{
		{"negative capacity", models.SolarConfig{CapacityKW: -1}},
		{"panel efficiency above one", models.SolarConfig{CapacityKW: 1, PanelEfficiency: 1.5}},
		{"negative inverter efficiency", models.SolarConfig{CapacityKW: 1, InverterEfficiency: -0.1}},
		{"total degradation", models.SolarConfig{CapacityKW: 1, DegradationRate: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveSolar(tt.cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestHourlySolar(t *testing.T) {
	start := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)
	samples := []models.WeatherSample{
		{Timestamp: start, Irradiance: models.Float(800), Temperature: models.Float(25)},
		{Timestamp: start.Add(time.Hour), Irradiance: models.Float(800)},
		{Timestamp: start.Add(2 * time.Hour), Temperature: models.Float(30)},
	}

	records, err := HourlySolar(context.Background(), samples, models.SolarConfig{CapacityKW: 100})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, 15.2, records[0].GenerationKWh)
	assert.Equal(t, 0.19, records[0].EfficiencyFactor)

	// missing temperature falls back to the reference temperature
	assert.Equal(t, STCTemperature, records[1].TemperatureC)
	assert.Equal(t, 15.2, records[1].GenerationKWh)

	// missing irradiance is darkness
	assert.Equal(t, 0.0, records[2].IrradianceWM2)
	assert.Equal(t, 0.0, records[2].GenerationKWh)

	for i, r := range records {
		assert.Equal(t, samples[i].Timestamp, r.Timestamp)
	}
}

func TestHourlySolar_RoundsToFourPlaces(t *testing.T) {
	samples := []models.WeatherSample{{Irradiance: models.Float(333), Temperature: models.Float(31.7)}}

	records, err := HourlySolar(context.Background(), samples, models.SolarConfig{CapacityKW: 7})
	require.NoError(t, err)

	raw := SolarGeneration(333, 31.7, 7, 0.20, 0.95, -0.004, 1.0)
	assert.InDelta(t, raw, records[0].GenerationKWh, 0.00005)
	assert.Equal(t, Round(raw, 4), records[0].GenerationKWh)
}

func TestHourlySolar_RejectsNegativeCapacity(t *testing.T) {
	_, err := HourlySolar(context.Background(), nil, models.SolarConfig{CapacityKW: -10})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestHourlySolar_Empty(t *testing.T) {
	records, err := HourlySolar(context.Background(), nil, models.SolarConfig{CapacityKW: 10})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestBaseYearGeneration(t *testing.T) {
	samples := make([]models.WeatherSample, 0, 8760)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 8760; h++ {
		irradiance := 0.0
		if hour := h % 24; hour >= 8 && hour < 16 {
			irradiance = 500
		}
		samples = append(samples, models.WeatherSample{
			Timestamp:   start.Add(time.Duration(h) * time.Hour),
			Irradiance:  models.Float(irradiance),
			Temperature: models.Float(25),
		})
	}

	total, err := BaseYearGeneration(context.Background(), samples, models.SolarConfig{CapacityKW: 100})
	require.NoError(t, err)

	// 8 sunny hours × 365 days × 0.5 × 100 kW × 0.19
	assert.InDelta(t, 8*365*9.5, total, 1e-6)
}
