package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/logging"
	"weather-forecast/metrics"
	"weather-forecast/models"
)

// Client fetches current weather and forecasts from the OpenWeatherMap API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// Ensure Client implements datasource.Provider
var _ datasource.Provider = (*Client)(nil)

// NewClient creates a new OpenWeatherMap client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: datasource.DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logging.Discard(),
	}
}

// NewClientFromConfig creates a client using the configured key and base URL
func NewClientFromConfig(cfg *datasource.Config, logger *logging.StructuredLogger, m *metrics.Collector) *Client {
	c := NewClient(cfg.OpenWeatherMap.APIKey)
	c.SetBaseURL(cfg.OpenWeatherMap.BaseURL)
	c.SetLogger(logger)
	c.SetMetrics(m)
	return c
}

// SetBaseURL changes the API root, e.g. to point at a test server
func (c *Client) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// SetLogger changes the logger used for request logging
func (c *Client) SetLogger(logger *logging.StructuredLogger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetMetrics enables request metrics
func (c *Client) SetMetrics(m *metrics.Collector) {
	c.metrics = m
}

// Name returns the provider name
func (c *Client) Name() string {
	return "OpenWeatherMap"
}

// GetWeather fetches current weather for a city
func (c *Client) GetWeather(ctx context.Context, city string, opts datasource.QueryOptions) (models.CurrentWeather, error) {
	var weather models.CurrentWeather
	if err := c.get(ctx, "weather", city, opts, &weather); err != nil {
		return models.CurrentWeather{}, err
	}
	return weather, nil
}

// get performs one GET against endpoint and decodes a 200 body into out.
// Non-OK responses become *datasource.APIError.
func (c *Client) get(ctx context.Context, endpoint, city string, opts datasource.QueryOptions, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		c.record(ctx, endpoint, city, start, err)
	}()

	params := url.Values{}
	params.Add("q", city)
	params.Add("units", string(opts.Units))
	params.Add("lang", opts.Language)
	params.Add("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return newAPIError(resp, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse API response: %w", err)
	}

	return nil
}

// newAPIError prefers the message in the error body, falling back to the
// response status text
func newAPIError(resp *http.Response, body []byte) *datasource.APIError {
	var payload struct {
		Message string `json:"message"`
	}
	message := ""
	if json.Unmarshal(body, &payload) == nil {
		message = strings.TrimSpace(payload.Message)
	}
	// Use the reason phrase the server sent, e.g. "404 Not Found" -> "Not Found"
	if message == "" {
		message = strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &datasource.APIError{StatusCode: resp.StatusCode, Message: message}
}

func (c *Client) record(ctx context.Context, endpoint, city string, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := "success"
	fields := logging.Fields{
		"endpoint":    endpoint,
		"city":        city,
		"duration_ms": elapsed.Milliseconds(),
	}

	if err != nil {
		outcome = "error"
		var apiErr *datasource.APIError
		if errors.As(err, &apiErr) {
			outcome = "api_error"
			fields["status"] = apiErr.StatusCode
		}
		fields["error"] = err.Error()
		c.logger.Warn(ctx, "[OWM] request failed", fields)
	} else {
		c.logger.Debug(ctx, "[OWM] request completed", fields)
	}

	if c.metrics != nil {
		c.metrics.RecordFetch(endpoint, outcome, elapsed)
	}
}
