package models

// CurrentWeather represents the current conditions for a city
type CurrentWeather struct {
	Name    string      `json:"name"`
	Main    Readings    `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    Wind        `json:"wind"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// PrimaryCondition returns the first weather condition, if any
func (c CurrentWeather) PrimaryCondition() (Condition, bool) {
	if len(c.Weather) == 0 {
		return Condition{}, false
	}
	return c.Weather[0], true
}
