package openweathermap

import (
	"context"

	"weather-forecast/datasource"
	"weather-forecast/models"
)

// FetchForecast gets the 5-day / 3-hour forecast series for a city.
// The series is returned as received; reducing it to daily entries is up to the caller.
func (c *Client) FetchForecast(ctx context.Context, city string, opts datasource.QueryOptions) (models.ForecastResult, error) {
	var result models.ForecastResult
	if err := c.get(ctx, "forecast", city, opts, &result); err != nil {
		return models.ForecastResult{}, err
	}

	if result.List == nil {
		result.List = []models.ForecastEntry{}
	}

	return result, nil
}
