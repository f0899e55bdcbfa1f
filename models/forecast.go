package models

import (
	"strings"
	"time"
)

// TimestampLayout is the layout of the dt_txt field in forecast entries
const TimestampLayout = "2006-01-02 15:04:05"

// Readings holds the temperature block shared by forecast and current weather payloads
type Readings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
}

// Condition describes one weather condition (e.g. "clear sky")
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Wind holds wind speed and direction
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

// ForecastEntry is one 3-hour sample of the forecast series
type ForecastEntry struct {
	Dt      int64       `json:"dt"`     // epoch seconds
	DtTxt   string      `json:"dt_txt"` // "YYYY-MM-DD HH:MM:SS"
	Main    Readings    `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    Wind        `json:"wind"`
}

// Time returns the sample time as a UTC timestamp
func (e ForecastEntry) Time() time.Time {
	return time.Unix(e.Dt, 0).UTC()
}

// Date returns the calendar date portion of dt_txt, or "" when dt_txt is malformed
func (e ForecastEntry) Date() string {
	date, _, ok := e.split()
	if !ok {
		return ""
	}
	return date
}

// Clock returns the time-of-day portion of dt_txt, or "" when dt_txt is malformed
func (e ForecastEntry) Clock() string {
	_, clock, ok := e.split()
	if !ok {
		return ""
	}
	return clock
}

func (e ForecastEntry) split() (string, string, bool) {
	if _, err := time.Parse(TimestampLayout, e.DtTxt); err != nil {
		return "", "", false
	}
	return strings.Cut(e.DtTxt, " ")
}

// PrimaryCondition returns the first weather condition, if any
func (e ForecastEntry) PrimaryCondition() (Condition, bool) {
	if len(e.Weather) == 0 {
		return Condition{}, false
	}
	return e.Weather[0], true
}

// City identifies the forecast location
type City struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// ForecastResult is the decoded forecast payload
type ForecastResult struct {
	City City            `json:"city"`
	List []ForecastEntry `json:"list"`
}

// DailySelection is at most five forecast entries, one per calendar date, in ascending order
type DailySelection []ForecastEntry
