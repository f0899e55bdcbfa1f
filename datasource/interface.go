package datasource

import (
	"context"
	"fmt"
	"strings"

	"weather-forecast/models"
)

// UnitSystem selects the measurement units requested from the API
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// ParseUnitSystem converts a user supplied unit name into a UnitSystem
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch UnitSystem(strings.ToLower(strings.TrimSpace(s))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want metric or imperial)", s)
	}
}

// TemperatureSymbol returns the display suffix for temperatures
func (u UnitSystem) TemperatureSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedUnit returns the display suffix for wind speed
func (u UnitSystem) SpeedUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// QueryOptions are passed through to the API with every request
type QueryOptions struct {
	Units    UnitSystem
	Language string
}

// ForecastSource is an interface for services that can fetch the multi-day forecast series
type ForecastSource interface {
	// FetchForecast fetches the forecast series for a city
	FetchForecast(ctx context.Context, city string, opts QueryOptions) (models.ForecastResult, error)

	// Name returns the source's name
	Name() string
}

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current weather for a city
	GetWeather(ctx context.Context, city string, opts QueryOptions) (models.CurrentWeather, error)

	// Name returns the provider's name
	Name() string
}

// Provider serves both current weather and forecasts
type Provider interface {
	ForecastSource
	WeatherProvider
}
