package weather

import (
	"context"
	"time"

	"renewable-forecast/internal/models"
)

// Source supplies hourly weather samples for a site
type Source interface {
	Name() string
	Samples(ctx context.Context, q Query) ([]models.WeatherSample, error)
}

// Query selects the samples to fetch. A zero Start asks for a forecast of
// ForecastDays from today; otherwise Start and End are inclusive dates of
// historical observations.
type Query struct {
	Latitude     float64
	Longitude    float64
	ForecastDays int
	Start        time.Time
	End          time.Time
}

// Historical reports whether the query targets past observations
func (q Query) Historical() bool {
	return !q.Start.IsZero()
}

// PreviousYear returns a historical query covering the whole calendar year before now
func PreviousYear(lat, lon float64, now time.Time) Query {
	year := now.Year() - 1
	return Query{
		Latitude:  lat,
		Longitude: lon,
		Start:     time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}
