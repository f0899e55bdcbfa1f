package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"weather-forecast/datasource"
	"weather-forecast/logging"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

const version = "1.0.0"

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitGeneralError)
	}
}

func newApp(stdout io.Writer) *cli.App {
	return &cli.App{
		Name:    "weather-forecast",
		Usage:   "5-day weather forecast from OpenWeatherMap",
		Version: version,
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON configuration file",
				EnvVars: []string{"WEATHER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "OpenWeatherMap API key",
				EnvVars: []string{"OPENWEATHERMAP_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "OpenWeatherMap API root",
				EnvVars: []string{"OPENWEATHERMAP_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "city",
				Usage:   "Default city searched at startup",
				EnvVars: []string{"WEATHER_DEFAULT_CITY"},
			},
			&cli.StringFlag{
				Name:    "units",
				Aliases: []string{"u"},
				Usage:   "Unit system: metric or imperial",
				EnvVars: []string{"WEATHER_UNITS"},
			},
			&cli.StringFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "Language code for descriptions and weekday names",
				EnvVars: []string{"WEATHER_LANG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "no-rate-limit",
				Usage: "Disable outbound API rate limiting",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the forecast page over HTTP",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to run the server on",
						EnvVars: []string{"PORT"},
					},
				},
				Action: serve,
			},
			{
				Name:      "forecast",
				Usage:     "Print the 5-day forecast for a city",
				ArgsUsage: "[city]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: printForecast,
			},
			{
				Name:      "current",
				Usage:     "Print current weather for a city",
				ArgsUsage: "[city]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output JSON"},
				},
				Action: printCurrent,
			},
		},
	}
}

// loadConfig merges defaults, the config file, the environment and flags, then validates
func loadConfig(c *cli.Context) (*datasource.Config, error) {
	cfg, err := datasource.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("Failed to load configuration: %v", err), ExitUsageError)
	}

	if c.IsSet("api-key") {
		cfg.OpenWeatherMap.APIKey = c.String("api-key")
	}
	if c.IsSet("base-url") {
		cfg.OpenWeatherMap.BaseURL = c.String("base-url")
	}
	if c.IsSet("city") {
		cfg.DefaultCity = c.String("city")
	}
	if c.IsSet("units") {
		units, err := datasource.ParseUnitSystem(c.String("units"))
		if err != nil {
			return nil, cli.Exit(err.Error(), ExitUsageError)
		}
		cfg.Units = units
	}
	if c.IsSet("lang") {
		cfg.Language = c.String("lang")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.Bool("no-rate-limit") {
		cfg.RateLimit.Enabled = false
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Exit(fmt.Sprintf("Invalid configuration: %v", err), ExitUsageError)
	}

	return cfg, nil
}

func newLogger(cfg *datasource.Config) *logging.StructuredLogger {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	logger := logging.NewStructuredLogger("weather-forecast", version, level)
	if err != nil {
		logger.Warn(context.Background(), "[STARTUP] unknown log level, using info", logging.Fields{"level": cfg.Logging.Level})
	}
	return logger
}

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
