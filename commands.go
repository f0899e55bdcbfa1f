package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"weather-forecast/api"
	"weather-forecast/datasource"
	"weather-forecast/logging"
	"weather-forecast/metrics"
	"weather-forecast/providers/openweathermap"
	"weather-forecast/session"
	"weather-forecast/view"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

// newProvider builds the OpenWeatherMap client, rate limited when configured
func newProvider(cfg *datasource.Config, logger *logging.StructuredLogger, m *metrics.Collector) datasource.Provider {
	client := openweathermap.NewClientFromConfig(cfg, logger, m)
	return datasource.WithRateLimit(client, cfg.RateLimit)
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewCollector("weather_forecast", reg)

	provider := newProvider(cfg, logger, m)
	sess := session.New(provider, cfg, logger, m)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "[STARTUP] Starting weather forecast server", logging.Fields{
		"version":      version,
		"default_city": cfg.DefaultCity,
		"units":        cfg.Units,
		"language":     cfg.Language,
		"rate_limited": cfg.RateLimit.Enabled,
	})

	stopSession := sess.Start(ctx)
	server := api.NewServer(sess, provider, cfg, logger, m, reg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info(context.Background(), "[SHUTDOWN] Shutting down server...", nil)
	case err := <-errCh:
		stopSession()
		if err != nil {
			return cli.Exit(err.Error(), ExitGeneralError)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(context.Background(), "[SHUTDOWN_ERROR] Server forced to shutdown", nil, err)
	}
	stopSession()

	logger.Info(context.Background(), "[SHUTDOWN_COMPLETE] Server stopped", nil)
	return nil
}

// printForecast runs one search cycle and prints the resulting view
func printForecast(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if city := c.Args().First(); city != "" {
		cfg.DefaultCity = city
	}
	logger := newLogger(cfg)

	sess := session.New(newProvider(cfg, logger, nil), cfg, logger, nil)
	stop := sess.Start(c.Context)
	sess.Wait()
	stop()

	st := sess.State()
	page := view.Render(st, time.Now(), cfg.LanguageTag(), cfg.Units)

	if c.Bool("json") {
		err = outputJSON(c.App.Writer, api.StateResponse{State: st, View: page})
	} else {
		err = view.WriteText(c.App.Writer, page)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to write output: %v", err), ExitGeneralError)
	}

	if st.Phase == session.PhaseFailed {
		return cli.Exit("", ExitDataError)
	}
	return nil
}

// printCurrent fetches and prints current conditions
func printCurrent(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	city := cfg.DefaultCity
	if arg := c.Args().First(); arg != "" {
		city = arg
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(c.Context, time.Duration(cfg.FetchTimeout))
	defer cancel()

	weather, err := newProvider(cfg, logger, nil).GetWeather(ctx, city, cfg.QueryOptions())
	if err != nil {
		var apiErr *datasource.APIError
		if !errors.As(err, &apiErr) {
			logger.Error(ctx, "[CURRENT] request failed", logging.Fields{"city": city}, err)
		}
		return cli.Exit("Error: "+datasource.DisplayMessage(err), ExitDataError)
	}

	current := view.RenderCurrent(weather, cfg.LanguageTag(), cfg.Units)
	if c.Bool("json") {
		err = outputJSON(c.App.Writer, api.CurrentResponse{Weather: weather, View: current})
	} else {
		err = view.WriteCurrentText(c.App.Writer, current)
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to write output: %v", err), ExitGeneralError)
	}
	return nil
}
