package generation

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewable-forecast/internal/models"
)

func testTurbine() models.WindConfig {
	return models.WindConfig{
		HubHeightM:      80,
		RatedCapacityKW: 2000,
		CutInMS:         3,
		RatedMS:         12,
		CutOutMS:        25,
		Turbines:        1,
		ShearExponent:   0.2,
	}
}

func TestAdjustWindToHeight(t *testing.T) {
	t.Run("missing speed is calm", func(t *testing.T) {
		assert.Equal(t, 0.0, AdjustWindToHeight(nil, 80, 0.2))
	})

	t.Run("identity at reference height", func(t *testing.T) {
		for _, shear := range []float64{0, 0.1, 0.2, 0.35} {
			assert.InDelta(t, 6.4, AdjustWindToHeight(models.Float(6.4), 10, shear), 1e-12)
		}
	})

	t.Run("non-positive hub height passes through", func(t *testing.T) {
		assert.Equal(t, 7.0, AdjustWindToHeight(models.Float(7), 0, 0.2))
		assert.Equal(t, 0.0, AdjustWindToHeight(models.Float(-2), -5, 0.2))
	})

	t.Run("power law", func(t *testing.T) {
		assert.InDelta(t, 5*math.Pow(8, 0.2), AdjustWindToHeight(models.Float(5), 80, 0.2), 1e-12)
	})

	t.Run("clamped at zero", func(t *testing.T) {
		assert.Equal(t, 0.0, AdjustWindToHeight(models.Float(-1), 80, 0.2))
	})
}

func TestPowerCurve(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		expected float64
	}{
		{"calm", 0, 0},
		{"below cut-in", 2.99, 0},
		{"at cut-in", 3, 0},
		{"mid cubic", 7.5, 2000 * (7.5*7.5*7.5 - 27) / (1728 - 27)},
		{"at rated", 12, 2000},
		{"plateau", 15, 2000},
		{"at cut-out", 25, 2000},
		{"above cut-out", 25.01, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PowerCurve(tt.speed, 3, 12, 25, 2000), 1e-9)
		})
	}
}

func TestPowerCurve_ContinuousAtRated(t *testing.T) {
	below := PowerCurve(12-1e-9, 3, 12, 25, 2000)
	at := PowerCurve(12, 3, 12, 25, 2000)
	above := PowerCurve(12+1e-9, 3, 12, 25, 2000)

	assert.Equal(t, 2000.0, at)
	assert.InDelta(t, at, below, 1e-3)
	assert.Equal(t, at, above)
}

func TestPowerCurve_StepWhenCutInEqualsRated(t *testing.T) {
	assert.Equal(t, 1500.0, PowerCurve(4, 4, 4, 20, 1500))
	assert.Equal(t, 0.0, PowerCurve(3.9, 4, 4, 20, 1500))
}

func TestPowerCurve_NeverNegativeNearCutIn(t *testing.T) {
	for v := 2.9; v <= 3.2; v += 0.001 {
		assert.GreaterOrEqual(t, PowerCurve(v, 3, 12, 25, 2000), 0.0, "v=%.3f", v)
	}
}

func TestWindGeneration_MultipliesTurbines(t *testing.T) {
	cfg := testTurbine()
	cfg.HubHeightM = 10
	cfg.Turbines = 5

	hub, kwh := WindGeneration(models.Float(15), cfg)
	assert.Equal(t, 15.0, hub)
	assert.Equal(t, 10000.0, kwh)
}

func TestResolveWind(t *testing.T) {
	cfg, err := ResolveWind(models.WindConfig{RatedCapacityKW: 1000, CutInMS: 3, RatedMS: 11, CutOutMS: 25})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Turbines)
	assert.Equal(t, DefaultShearExponent, cfg.ShearExponent)

	invalid := []models.WindConfig{
		{RatedCapacityKW: 1000, CutInMS: 3, RatedMS: 11, CutOutMS: 25, Turbines: -1},
		{RatedCapacityKW: -1000, CutInMS: 3, RatedMS: 11, CutOutMS: 25},
		{RatedCapacityKW: 1000, CutInMS: 12, RatedMS: 11, CutOutMS: 25},
		{RatedCapacityKW: 1000, CutInMS: 3, RatedMS: 30, CutOutMS: 25},
	}
	for _, c := range invalid {
		_, err := ResolveWind(c)
		assert.ErrorIs(t, err, ErrInvalidConfig, "%+v", c)
	}
}

func TestHourlyWind(t *testing.T) {
	start := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	samples := []models.WeatherSample{
		{Timestamp: start, WindSpeed: models.Float(5)},
		{Timestamp: start.Add(time.Hour)},
		{Timestamp: start.Add(2 * time.Hour), WindSpeed: models.Float(11)},
		{Timestamp: start.Add(3 * time.Hour), WindSpeed: models.Float(30)},
	}

	records, err := HourlyWind(context.Background(), samples, testTurbine())
	require.NoError(t, err)
	require.Len(t, records, len(samples))

	hub := 5 * math.Pow(8, 0.2)
	assert.Equal(t, 5.0, records[0].WindSpeed10M)
	assert.Equal(t, 7.579, records[0].WindSpeedHub)
	assert.Equal(t, Round(PowerCurve(hub, 3, 12, 25, 2000), 4), records[0].GenerationKWh)

	assert.Equal(t, 0.0, records[1].WindSpeed10M)
	assert.Equal(t, 0.0, records[1].GenerationKWh)

	// 11 m/s at 10 m is past rated at 80 m
	assert.Equal(t, 2000.0, records[2].GenerationKWh)

	// 30 m/s is past cut-out at any height
	assert.Equal(t, 0.0, records[3].GenerationKWh)

	for i, r := range records {
		assert.Equal(t, samples[i].Timestamp, r.Timestamp)
		assert.GreaterOrEqual(t, r.GenerationKWh, 0.0)
	}
}

func TestHourlyWind_RejectsNegativeTurbines(t *testing.T) {
	cfg := testTurbine()
	cfg.Turbines = -2

	_, err := HourlyWind(context.Background(), []models.WeatherSample{{}}, cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
