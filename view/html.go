package view

import (
	"html/template"
	"io"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    {{- if eq .Kind "loading"}}
    <meta http-equiv="refresh" content="1">
    {{- end}}
    <title>{{if .Location}}{{.Location}} · {{end}}Weather forecast</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
        form { display: flex; gap: .5rem; margin-bottom: 1.5rem; }
        input[type=text] { flex: 1; padding: .5rem; }
        .error { background: #fde8e8; color: #9b1c1c; padding: .75rem 1rem; border-radius: .5rem; }
        .days { display: grid; grid-template-columns: repeat(auto-fit, minmax(8rem, 1fr)); gap: .75rem; list-style: none; padding: 0; }
        .day { border: 1px solid #ddd; border-radius: .5rem; padding: .75rem; text-align: center; }
        .day.today { border-color: #1c64f2; background: #ebf5ff; }
        .temp { font-size: 1.75rem; font-weight: 600; }
    </style>
</head>
<body>
    <form method="post" action="/search">
        <input type="text" name="city" value="{{.Input}}" placeholder="City" aria-label="City" required>
        <button type="submit">Search</button>
    </form>
    {{- if eq .Kind "loading"}}
    <p class="loading">Loading weather data for {{.City}}...</p>
    {{- else if eq .Kind "error"}}
    <p class="error" role="alert">Error: {{.Message}}</p>
    {{- else if eq .Kind "forecast"}}
    <h1>{{.Location}}</h1>
    {{- if .Cards}}
    <ul class="days">
        {{- range .Cards}}
        <li class="day{{if .Today}} today{{end}}" data-date="{{.Date}}">
            <div class="weekday">{{.Weekday}}</div>
            {{- if .IconURL}}
            <img src="{{.IconURL}}" alt="{{.Description}}" width="64" height="64">
            {{- end}}
            <div class="temp">{{.Temp}}{{$.TempUnit}}</div>
            <div class="description">{{.Description}}</div>
        </li>
        {{- end}}
    </ul>
    {{- else}}
    <p>No midday forecast available.</p>
    {{- end}}
    {{- end}}
</body>
</html>
`

var pageHTML = template.Must(template.New("page").Parse(pageTemplate))

// WriteHTML renders the page as a complete HTML document
func WriteHTML(w io.Writer, page Page) error {
	return pageHTML.Execute(w, page)
}
