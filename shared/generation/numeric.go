package generation

import (
	"math"

	"github.com/shopspring/decimal"
)

// Decimal places used when publishing figures
const (
	energyPlaces = 4
	speedPlaces  = 3
	annualPlaces = 2
)

// DegradationFactor returns the fraction of original capacity left after
// years of aging at the given annual rate.
func DegradationFactor(years int, rate float64) float64 {
	return math.Pow(1-rate, float64(years))
}

// Round rounds half away from zero on the shortest decimal form of v, so
// 15.2 stays 15.2 instead of picking up binary noise.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
