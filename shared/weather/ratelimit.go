package weather

import (
	"context"
	"fmt"

	"renewable-forecast/internal/models"

	"golang.org/x/time/rate"
)

// RateLimitedSource wraps a Source with a token bucket
type RateLimitedSource struct {
	source  Source
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedSource allows rps requests per second (fractional is fine) with bursts of up to burst
func NewRateLimitedSource(source Source, rps float64, burst int) *RateLimitedSource {
	return &RateLimitedSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

func (r *RateLimitedSource) Samples(ctx context.Context, q Query) ([]models.WeatherSample, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.Samples(ctx, q)
}

func (r *RateLimitedSource) Name() string {
	return r.name
}
