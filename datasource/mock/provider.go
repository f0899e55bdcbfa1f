// Package mock provides an in-memory datasource.Provider that simulates latency and counts calls.
package mock

import (
	"context"
	"net/http"
	"sync"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/models"
)

// Provider is a scripted datasource.Provider
type Provider struct {
	mu        sync.Mutex
	calls     []string
	latency   time.Duration
	forecasts map[string]models.ForecastResult
	current   map[string]models.CurrentWeather
	errs      map[string]error
	gates     map[string]chan struct{}
}

var _ datasource.Provider = (*Provider)(nil)

// NewProvider creates a provider that answers unknown cities with a 404 "city not found"
func NewProvider(latency time.Duration) *Provider {
	return &Provider{
		latency:   latency,
		forecasts: make(map[string]models.ForecastResult),
		current:   make(map[string]models.CurrentWeather),
		errs:      make(map[string]error),
		gates:     make(map[string]chan struct{}),
	}
}

// SetForecast scripts the forecast returned for city
func (p *Provider) SetForecast(city string, result models.ForecastResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forecasts[city] = result
}

// SetCurrent scripts the current weather returned for city
func (p *Provider) SetCurrent(city string, weather models.CurrentWeather) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current[city] = weather
}

// SetError makes every request for city fail with err
func (p *Provider) SetError(city string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[city] = err
}

// Hold blocks requests for city until the returned release function is called
func (p *Provider) Hold(city string) (release func()) {
	gate := make(chan struct{})
	p.mu.Lock()
	p.gates[city] = gate
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

// Calls returns the cities requested so far, in order
func (p *Provider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns the number of requests made
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "MockProvider"
}

// FetchForecast returns the scripted forecast for city
func (p *Provider) FetchForecast(ctx context.Context, city string, _ datasource.QueryOptions) (models.ForecastResult, error) {
	if err := p.begin(ctx, city); err != nil {
		return models.ForecastResult{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.errs[city]; ok {
		return models.ForecastResult{}, err
	}
	result, ok := p.forecasts[city]
	if !ok {
		return models.ForecastResult{}, notFound()
	}
	return result, nil
}

// GetWeather returns the scripted current weather for city
func (p *Provider) GetWeather(ctx context.Context, city string, _ datasource.QueryOptions) (models.CurrentWeather, error) {
	if err := p.begin(ctx, city); err != nil {
		return models.CurrentWeather{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.errs[city]; ok {
		return models.CurrentWeather{}, err
	}
	weather, ok := p.current[city]
	if !ok {
		return models.CurrentWeather{}, notFound()
	}
	return weather, nil
}

// begin records the call, then waits for any gate on city and the simulated latency
func (p *Provider) begin(ctx context.Context, city string) error {
	p.mu.Lock()
	p.calls = append(p.calls, city)
	gate := p.gates[city]
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case <-time.After(p.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func notFound() error {
	return &datasource.APIError{StatusCode: http.StatusNotFound, Message: "city not found"}
}
