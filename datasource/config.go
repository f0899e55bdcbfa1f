package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// DefaultBaseURL is the OpenWeatherMap API root
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Duration is a time.Duration that reads from JSON as a Go duration string ("10s")
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// RateLimitConfig controls outbound request throttling
type RateLimitConfig struct {
	Enabled bool    `json:"enabled"`
	RPS     float64 `json:"rps"`
	Burst   int     `json:"burst"`
}

// Config represents the application configuration
type Config struct {
	OpenWeatherMap struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseURL"`
	} `json:"openWeatherMap"`

	// City submitted automatically at startup
	DefaultCity string     `json:"defaultCity"`
	Units       UnitSystem `json:"units"`
	// Locale code passed as the lang parameter and used for weekday names
	Language string `json:"language"`

	FetchTimeout Duration        `json:"fetchTimeout"`
	RateLimit    RateLimitConfig `json:"rateLimit"`

	Server struct {
		Port int `json:"port"`
	} `json:"server"`

	Logging struct {
		Level string `json:"level"`
	} `json:"logging"`
}

// LoadConfig loads configuration from a JSON file on top of the defaults
func LoadConfig(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := DefaultConfig()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, err)
	}

	return config, nil
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{
		DefaultCity:  "Stockholm",
		Units:        Metric,
		Language:     "sv",
		FetchTimeout: Duration(10 * time.Second),
		// OpenWeatherMap free tier allows 60 calls/minute, with bursts of up to 5 requests
		RateLimit: RateLimitConfig{Enabled: true, RPS: 1.0, Burst: 5},
	}
	config.OpenWeatherMap.BaseURL = DefaultBaseURL
	config.Server.Port = 8080
	config.Logging.Level = "info"
	return config
}

// Load builds the configuration from defaults, an optional JSON file, and the environment
func Load(filename string) (*Config, error) {
	config := DefaultConfig()
	if filename != "" {
		loaded, err := LoadConfig(filename)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides configuration values from environment variables
func (c *Config) ApplyEnv() error {
	c.OpenWeatherMap.APIKey = getEnv("OPENWEATHERMAP_API_KEY", c.OpenWeatherMap.APIKey)
	c.OpenWeatherMap.BaseURL = getEnv("OPENWEATHERMAP_BASE_URL", c.OpenWeatherMap.BaseURL)
	c.DefaultCity = getEnv("WEATHER_DEFAULT_CITY", c.DefaultCity)
	c.Language = getEnv("WEATHER_LANG", c.Language)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Server.Port = getEnvInt("PORT", c.Server.Port)

	if v := os.Getenv("WEATHER_UNITS"); v != "" {
		units, err := ParseUnitSystem(v)
		if err != nil {
			return err
		}
		c.Units = units
	}

	if v := os.Getenv("WEATHER_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid WEATHER_FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = Duration(d)
	}

	if v := os.Getenv("WEATHER_RATE_LIMIT"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WEATHER_RATE_LIMIT: %w", err)
		}
		c.RateLimit.Enabled = enabled
	}

	return nil
}

// Validate checks that the configuration can be used to start a session
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.OpenWeatherMap.APIKey) == "" {
		errs = append(errs, errors.New("OpenWeatherMap API key is required"))
	}
	if c.OpenWeatherMap.BaseURL == "" {
		errs = append(errs, errors.New("OpenWeatherMap base URL is required"))
	}
	if strings.TrimSpace(c.DefaultCity) == "" {
		errs = append(errs, errors.New("default city is required"))
	}
	if _, err := ParseUnitSystem(string(c.Units)); err != nil {
		errs = append(errs, err)
	}
	if _, err := language.Parse(c.Language); err != nil {
		errs = append(errs, fmt.Errorf("invalid language %q: %w", c.Language, err))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch timeout must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst < 1) {
		errs = append(errs, errors.New("rate limit needs a positive rps and a burst of at least 1"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}

	return errors.Join(errs...)
}

// LanguageTag returns the configured language, falling back to English when it does not parse
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.English
	}
	return tag
}

// QueryOptions returns the per-request options derived from the configuration
func (c *Config) QueryOptions() QueryOptions {
	return QueryOptions{Units: c.Units, Language: c.Language}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
