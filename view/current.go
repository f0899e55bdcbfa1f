package view

import (
	"weather-forecast/datasource"
	"weather-forecast/forecast"
	"weather-forecast/models"

	"golang.org/x/text/language"
)

// Current is the render model for current conditions
type Current struct {
	Location    string  `json:"location"`
	Temp        int     `json:"temp"`
	FeelsLike   int     `json:"feelsLike"`
	TempMin     int     `json:"tempMin"`
	TempMax     int     `json:"tempMax"`
	Description string  `json:"description"`
	IconURL     string  `json:"iconUrl,omitempty"`
	WindSpeed   float64 `json:"windSpeed"`
	WindDeg     int     `json:"windDeg"`
	TempUnit    string  `json:"tempUnit"`
	SpeedUnit   string  `json:"speedUnit"`
}

// RenderCurrent maps current weather to its render model
func RenderCurrent(w models.CurrentWeather, tag language.Tag, units datasource.UnitSystem) Current {
	c := Current{
		Location:  Location(w.Name, w.Sys.Country),
		Temp:      Round(w.Main.Temp),
		FeelsLike: Round(w.Main.FeelsLike),
		TempMin:   Round(w.Main.TempMin),
		TempMax:   Round(w.Main.TempMax),
		WindSpeed: w.Wind.Speed,
		WindDeg:   w.Wind.Deg,
		TempUnit:  units.TemperatureSymbol(),
		SpeedUnit: units.SpeedUnit(),
	}

	if cond, ok := w.PrimaryCondition(); ok {
		c.Description = forecast.Describe(cond.Description, tag)
		c.IconURL = IconURL(cond.Icon)
	}

	return c
}
