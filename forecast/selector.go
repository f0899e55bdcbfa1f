// Package forecast reduces the raw 3-hour forecast series to one entry per day.
package forecast

import (
	"weather-forecast/models"
)

const (
	// MaxDays is the maximum number of daily entries kept
	MaxDays = 5

	// MiddayClock is the only sample time accepted as a day's representative
	MiddayClock = "12:00:00"
)

// SelectDaily picks the midday sample of each calendar date, in input order,
// stopping after MaxDays dates. Entries with a malformed dt_txt are skipped.
// The input slice is not modified.
func SelectDaily(entries []models.ForecastEntry) models.DailySelection {
	selection := make(models.DailySelection, 0, MaxDays)
	seen := make(map[string]struct{}, MaxDays)

	for _, entry := range entries {
		if len(selection) == MaxDays {
			break
		}

		if entry.Clock() != MiddayClock {
			continue
		}

		date := entry.Date()
		if _, dup := seen[date]; dup {
			continue
		}

		seen[date] = struct{}{}
		selection = append(selection, entry)
	}

	return selection
}
