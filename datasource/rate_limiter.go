package datasource

import (
	"context"
	"fmt"

	"weather-forecast/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider with rate limiting.
// Forecast and current weather calls draw from the same limiter since the API counts them together.
type RateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider creates a new rate limited provider
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedProvider(provider Provider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// WithRateLimit applies the configured rate limit, or returns provider unchanged when disabled
func WithRateLimit(provider Provider, cfg RateLimitConfig) Provider {
	if !cfg.Enabled {
		return provider
	}
	return NewRateLimitedProvider(provider, cfg.RPS, cfg.Burst)
}

// FetchForecast fetches forecast data, respecting rate limits
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, city string, opts QueryOptions) (models.ForecastResult, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.ForecastResult{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.FetchForecast(ctx, city, opts)
}

// GetWeather fetches current weather, respecting rate limits
func (r *RateLimitedProvider) GetWeather(ctx context.Context, city string, opts QueryOptions) (models.CurrentWeather, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.CurrentWeather{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.GetWeather(ctx, city, opts)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

var _ Provider = (*RateLimitedProvider)(nil)
