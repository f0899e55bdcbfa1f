package view

import (
	"io"
	"text/template"
)

const forecastText = `{{- if eq .Kind "loading" -}}
Loading weather data for {{.City}}...
{{else if eq .Kind "error" -}}
Error: {{.Message}}
{{else if eq .Kind "forecast" -}}
{{.Location}}
{{range .Cards -}}
{{if .Today}}*{{else}} {{end}} {{printf "%-6s" .Weekday}} {{.Date}}  {{printf "%4d" .Temp}}{{$.TempUnit}}  {{.Description}}
{{else -}}
No midday forecast available.
{{end -}}
{{else -}}
Enter a city to search.
{{end -}}
`

const currentText = `Weather in {{.Location}}
Temperature: {{.Temp}}{{.TempUnit}} (min {{.TempMin}}{{.TempUnit}}, max {{.TempMax}}{{.TempUnit}})
Feels like:  {{.FeelsLike}}{{.TempUnit}}
Description: {{.Description}}
Wind speed:  {{.WindSpeed}} {{.SpeedUnit}}
`

var (
	forecastTmpl = template.Must(template.New("forecast").Parse(forecastText))
	currentTmpl  = template.Must(template.New("current").Parse(currentText))
)

// WriteText renders the page for a terminal. Today's card is marked with '*'.
func WriteText(w io.Writer, page Page) error {
	return forecastTmpl.Execute(w, page)
}

// WriteCurrentText renders current conditions for a terminal
func WriteCurrentText(w io.Writer, c Current) error {
	return currentTmpl.Execute(w, c)
}
