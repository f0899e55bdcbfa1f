package forecast

import (
	"strings"
	"time"

	"weather-forecast/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// short weekday names indexed by time.Weekday, one row per supported language
var weekdayNames = [][7]string{
	{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	{"sön", "mån", "tis", "ons", "tors", "fre", "lör"},
	{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	{"dim.", "lun.", "mar.", "mer.", "jeu.", "ven.", "sam."},
	{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"},
	{"su", "ma", "ti", "ke", "to", "pe", "la"},
	{"søn.", "man.", "tirs.", "ons.", "tors.", "fre.", "lør."},
}

// supportedLanguages must stay aligned with the rows of weekdayNames
var supportedLanguages = []language.Tag{
	language.English,
	language.Swedish,
	language.German,
	language.French,
	language.Spanish,
	language.Finnish,
	language.Danish,
}

var matcher = language.NewMatcher(supportedLanguages)

// MatchLanguage returns the closest supported language for tag, defaulting to English
func MatchLanguage(tag language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return supportedLanguages[0]
	}
	return supportedLanguages[idx]
}

// WeekdayLabel returns the short weekday name of the entry's date in the given language
func WeekdayLabel(entry models.ForecastEntry, tag language.Tag) string {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	return weekdayNames[idx][entryDay(entry).Weekday()]
}

// IsSameDay reports whether the entry's calendar date, the one its card shows,
// is now's date in now's location
func IsSameDay(entry models.ForecastEntry, now time.Time) bool {
	y1, m1, d1 := entryDay(entry).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Describe capitalizes the first word of a condition description for display
func Describe(description string, tag language.Tag) string {
	first, rest, found := strings.Cut(strings.TrimSpace(description), " ")
	first = cases.Title(MatchLanguage(tag)).String(first)
	if !found {
		return first
	}
	return first + " " + rest
}

func entryDay(entry models.ForecastEntry) time.Time {
	if t, err := time.Parse(models.TimestampLayout, entry.DtTxt); err == nil {
		return t
	}
	return entry.Time()
}
