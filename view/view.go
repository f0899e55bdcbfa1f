// Package view turns a session snapshot into what the user sees.
package view

import (
	"fmt"
	"math"
	"time"

	"weather-forecast/datasource"
	"weather-forecast/forecast"
	"weather-forecast/models"
	"weather-forecast/session"

	"golang.org/x/text/language"
)

// Kind selects which of the four views is shown below the search form
type Kind string

const (
	KindForm     Kind = "form"
	KindLoading  Kind = "loading"
	KindError    Kind = "error"
	KindForecast Kind = "forecast"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// Card is one day of the forecast list
type Card struct {
	Date        string `json:"date"`
	Weekday     string `json:"weekday"`
	Temp        int    `json:"temp"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	IconURL     string `json:"iconUrl,omitempty"`
	Today       bool   `json:"today"`
}

// Page is the render model. The search form is always part of it.
type Page struct {
	Kind     Kind   `json:"kind"`
	Lang     string `json:"lang"`
	Input    string `json:"input"`
	City     string `json:"city,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
	Cards    []Card `json:"cards,omitempty"`
	TempUnit string `json:"tempUnit"`
}

// Render maps the session state to a page. now decides which card is today.
func Render(st session.State, now time.Time, tag language.Tag, units datasource.UnitSystem) Page {
	page := Page{
		Kind:     KindForm,
		Lang:     forecast.MatchLanguage(tag).String(),
		Input:    st.Input,
		City:     st.City,
		TempUnit: units.TemperatureSymbol(),
	}

	// The form is always present, the phase picks what shows under it
	switch st.Phase {
	case session.PhasePending:
		page.Kind = KindLoading
	case session.PhaseFailed:
		page.Kind = KindError
		page.Message = st.Message
	case session.PhaseSuccess:
		page.Kind = KindForecast
		if st.Result != nil {
			page.Location = Location(st.Result.City.Name, st.Result.City.Country)
		}
		// One card per selected day, in forecast order
		page.Cards = make([]Card, 0, len(st.Daily))
		for _, entry := range st.Daily {
			page.Cards = append(page.Cards, newCard(entry, now, tag))
		}
	}

	return page
}

func newCard(entry models.ForecastEntry, now time.Time, tag language.Tag) Card {
	card := Card{
		Date:    entry.Date(),
		Weekday: forecast.WeekdayLabel(entry, tag),
		Temp:    Round(entry.Main.Temp),
		Today:   forecast.IsSameDay(entry, now),
	}

	if cond, ok := entry.PrimaryCondition(); ok {
		card.Description = forecast.Describe(cond.Description, tag)
		card.Icon = cond.Icon
		card.IconURL = IconURL(cond.Icon)
	}

	return card
}

// Round rounds halves up, so 2.5 becomes 3 and -2.5 becomes -2
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// IconURL returns the image URL of an OpenWeatherMap icon code
func IconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf(iconURLFormat, icon)
}

// Location formats "City, CC", omitting empty parts
func Location(name, country string) string {
	switch {
	case name == "":
		return country
	case country == "":
		return name
	default:
		return name + ", " + country
	}
}
