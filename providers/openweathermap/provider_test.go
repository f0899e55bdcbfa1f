package openweathermap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
	"cod": "200",
	"cnt": 3,
	"list": [
		{"dt": 1714554000, "dt_txt": "2024-05-01 09:00:00",
		 "main": {"temp": 11.2, "feels_like": 10.1, "temp_min": 10.9, "temp_max": 11.2},
		 "weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}],
		 "wind": {"speed": 3.6, "deg": 240}},
		{"dt": 1714564800, "dt_txt": "2024-05-01 12:00:00",
		 "main": {"temp": 14.5, "feels_like": 13.4, "temp_min": 14.5, "temp_max": 15.0},
		 "weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}],
		 "wind": {"speed": 4.1, "deg": 250}},
		{"dt": 1714651200, "dt_txt": "2024-05-02 12:00:00",
		 "main": {"temp": 16.0, "feels_like": 15.2, "temp_min": 15.8, "temp_max": 16.0},
		 "weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
		 "wind": {"speed": 5.0, "deg": 200}}
	],
	"city": {"id": 2673730, "name": "Stockholm", "country": "SE"}
}`

const weatherBody = `{
	"weather": [{"id": 800, "main": "Clear", "description": "klar himmel", "icon": "01d"}],
	"main": {"temp": 12.6, "feels_like": 11.3, "temp_min": 11.0, "temp_max": 13.9, "pressure": 1021, "humidity": 58},
	"wind": {"speed": 4.6, "deg": 230},
	"sys": {"country": "SE"},
	"name": "Stockholm"
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *metrics.Collector) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	m := metrics.NewCollector("test", prometheus.NewRegistry())
	c := NewClient("secret")
	c.SetBaseURL(server.URL + "/")
	c.SetMetrics(m)
	return c, m
}

var stockholmOpts = datasource.QueryOptions{Units: datasource.Metric, Language: "sv"}

func TestFetchForecast_Success(t *testing.T) {
	var got url.Values
	var path string
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(forecastBody))
	})

	result, err := c.FetchForecast(context.Background(), "Stockholm", stockholmOpts)
	require.NoError(t, err)

	assert.Equal(t, "/forecast", path)
	assert.Equal(t, "Stockholm", got.Get("q"))
	assert.Equal(t, "metric", got.Get("units"))
	assert.Equal(t, "sv", got.Get("lang"))
	assert.Equal(t, "secret", got.Get("appid"))

	assert.Equal(t, "Stockholm", result.City.Name)
	assert.Equal(t, "SE", result.City.Country)
	require.Len(t, result.List, 3)
	assert.Equal(t, "2024-05-01 12:00:00", result.List[1].DtTxt)
	assert.Equal(t, int64(1714564800), result.List[1].Dt)
	assert.InDelta(t, 14.5, result.List[1].Main.Temp, 0.001)
	assert.InDelta(t, 13.4, result.List[1].Main.FeelsLike, 0.001)
	assert.Equal(t, "clear sky", result.List[1].Weather[0].Description)
	assert.Equal(t, "01d", result.List[1].Weather[0].Icon)
	assert.Equal(t, 250, result.List[1].Wind.Deg)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("forecast", "success")))
}

func TestFetchForecast_CityWithSpaces(t *testing.T) {
	var q string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		w.Write([]byte(`{"city": {"name": "New York"}, "list": []}`))
	})

	result, err := c.FetchForecast(context.Background(), "New York,US", stockholmOpts)
	require.NoError(t, err)
	assert.Equal(t, "New York,US", q)
	assert.NotNil(t, result.List)
	assert.Empty(t, result.List)
}

func TestFetchForecast_APIErrorMessage(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	})

	_, err := c.FetchForecast(context.Background(), "Atlantis", stockholmOpts)
	require.Error(t, err)

	var apiErr *datasource.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "city not found", apiErr.Message)
	assert.Equal(t, "city not found", datasource.DisplayMessage(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("forecast", "api_error")))
}

func TestFetchForecast_APIErrorFallsBackToStatusText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"html body", "<html>Bad Gateway</html>"},
		{"json without message", `{"cod": 502}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			})

			_, err := c.FetchForecast(context.Background(), "Stockholm", stockholmOpts)
			assert.Equal(t, "Bad Gateway", datasource.DisplayMessage(err))
		})
	}
}

func TestNewAPIError_UsesServerReasonPhrase(t *testing.T) {
	tests := []struct {
		name   string
		status string
		code   int
		want   string
	}{
		{"custom phrase", "429 Slow Down Please", http.StatusTooManyRequests, "Slow Down Please"},
		{"standard phrase", "502 Bad Gateway", http.StatusBadGateway, "Bad Gateway"},
		{"bare code", "503", http.StatusServiceUnavailable, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Status: tt.status, StatusCode: tt.code}

			apiErr := newAPIError(resp, nil)
			assert.Equal(t, tt.code, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestFetchForecast_Unauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401, "message": "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`))
	})

	_, err := c.FetchForecast(context.Background(), "Stockholm", stockholmOpts)
	assert.Contains(t, datasource.DisplayMessage(err), "Invalid API key")
}

func TestFetchForecast_MalformedJSON(t *testing.T) {
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list": [`))
	})

	_, err := c.FetchForecast(context.Background(), "Stockholm", stockholmOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse API response")
	assert.Equal(t, datasource.UnknownErrorMessage, datasource.DisplayMessage(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("forecast", "error")))
}

func TestFetchForecast_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c := NewClient("secret")
	c.SetBaseURL(server.URL)

	_, err := c.FetchForecast(context.Background(), "Stockholm", stockholmOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
	assert.Equal(t, datasource.UnknownErrorMessage, datasource.DisplayMessage(err))
}

func TestFetchForecast_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.FetchForecast(ctx, "Stockholm", stockholmOpts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGetWeather(t *testing.T) {
	var path string
	c, m := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(weatherBody))
	})

	weather, err := c.GetWeather(context.Background(), "Stockholm", stockholmOpts)
	require.NoError(t, err)

	assert.Equal(t, "/weather", path)
	assert.Equal(t, "Stockholm", weather.Name)
	assert.Equal(t, "SE", weather.Sys.Country)
	assert.InDelta(t, 12.6, weather.Main.Temp, 0.001)
	assert.InDelta(t, 4.6, weather.Wind.Speed, 0.001)
	cond, ok := weather.PrimaryCondition()
	require.True(t, ok)
	assert.Equal(t, "klar himmel", cond.Description)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("weather", "success")))
}

func TestNewClientFromConfig(t *testing.T) {
	cfg := datasource.DefaultConfig()
	cfg.OpenWeatherMap.APIKey = "k"
	cfg.OpenWeatherMap.BaseURL = "http://localhost:1234/data/2.5/"

	c := NewClientFromConfig(cfg, nil, nil)
	assert.Equal(t, "http://localhost:1234/data/2.5", c.baseURL)
	assert.Equal(t, "k", c.apiKey)
	assert.NotNil(t, c.logger)
	assert.Equal(t, "OpenWeatherMap", c.Name())
}
