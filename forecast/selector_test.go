package forecast

import (
	"fmt"
	"testing"
	"time"

	"weather-forecast/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// series builds a 3-hourly forecast list starting at start, like the /forecast endpoint returns
func series(start time.Time, n int) []models.ForecastEntry {
	entries := make([]models.ForecastEntry, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * 3 * time.Hour)
		entries = append(entries, entry(ts))
	}
	return entries
}

func entry(ts time.Time) models.ForecastEntry {
	return models.ForecastEntry{
		Dt:      ts.Unix(),
		DtTxt:   ts.UTC().Format(models.TimestampLayout),
		Main:    models.Readings{Temp: float64(ts.Hour())},
		Weather: []models.Condition{{ID: 800, Main: "Clear", Description: "clear sky", Icon: "01d"}},
	}
}

func day(s string) time.Time {
	t, err := time.Parse(models.TimestampLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSelectDaily_FiveConsecutiveMiddays(t *testing.T) {
	// One midday entry per day for exactly five days
	var entries []models.ForecastEntry
	for i := 0; i < 5; i++ {
		entries = append(entries, entry(day("2024-05-01 12:00:00").AddDate(0, 0, i)))
	}

	selection := SelectDaily(entries)

	require.Len(t, selection, 5)
	for i, e := range selection {
		assert.Equal(t, fmt.Sprintf("2024-05-0%d 12:00:00", i+1), e.DtTxt)
	}
}

func TestSelectDaily_FullSeries(t *testing.T) {
	// Starts mid-afternoon and ends at midnight, so the first and last days have no midday sample
	entries := series(day("2024-05-01 15:00:00"), 36)

	selection := SelectDaily(entries)

	require.Len(t, selection, 4)
	assert.Equal(t, "2024-05-02 12:00:00", selection[0].DtTxt)
	assert.Equal(t, "2024-05-05 12:00:00", selection[3].DtTxt)
}

func TestSelectDaily_CapsAtFiveDays(t *testing.T) {
	entries := series(day("2024-05-01 00:00:00"), 8*7)

	selection := SelectDaily(entries)

	require.Len(t, selection, MaxDays)
	assert.Equal(t, "2024-05-05 12:00:00", selection[4].DtTxt)
}

func TestSelectDaily_SameDateKeepsOnlyMidday(t *testing.T) {
	entries := []models.ForecastEntry{
		entry(day("2024-05-01 09:00:00")),
		entry(day("2024-05-01 12:00:00")),
		entry(day("2024-05-01 15:00:00")),
	}

	selection := SelectDaily(entries)

	require.Len(t, selection, 1)
	assert.Equal(t, "2024-05-01 12:00:00", selection[0].DtTxt)
}

func TestSelectDaily_DuplicateMiddayKeepsFirst(t *testing.T) {
	first := entry(day("2024-05-01 12:00:00"))
	second := first
	second.Main.Temp = 99

	selection := SelectDaily([]models.ForecastEntry{first, second})

	require.Len(t, selection, 1)
	assert.Equal(t, first.Main.Temp, selection[0].Main.Temp)
}

func TestSelectDaily_NoMiddayEntries(t *testing.T) {
	entries := []models.ForecastEntry{
		entry(day("2024-05-01 09:00:00")),
		entry(day("2024-05-01 15:00:00")),
		entry(day("2024-05-02 21:00:00")),
	}

	selection := SelectDaily(entries)

	assert.NotNil(t, selection)
	assert.Empty(t, selection)
	assert.Empty(t, SelectDaily(nil))
}

func TestSelectDaily_SkipsMalformedTimestamps(t *testing.T) {
	entries := []models.ForecastEntry{
		{DtTxt: "12:00:00"},
		{DtTxt: "2024-13-01 12:00:00"},
		entry(day("2024-05-01 12:00:00")),
	}

	selection := SelectDaily(entries)

	require.Len(t, selection, 1)
	assert.Equal(t, "2024-05-01", selection[0].Date())
}

func TestSelectDaily_PureAndIdempotent(t *testing.T) {
	entries := series(day("2024-05-01 00:00:00"), 40)
	snapshot := make([]models.ForecastEntry, len(entries))
	copy(snapshot, entries)

	first := SelectDaily(entries)
	second := SelectDaily(entries)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, entries, "input must not be modified")

	again := SelectDaily(first)
	assert.Equal(t, first, again)
}

func TestSelectDaily_Invariants(t *testing.T) {
	starts := []string{"2024-05-01 00:00:00", "2024-05-01 03:00:00", "2024-05-01 15:00:00", "2024-12-30 21:00:00"}

	for _, start := range starts {
		t.Run(start, func(t *testing.T) {
			selection := SelectDaily(series(day(start), 40))

			assert.LessOrEqual(t, len(selection), MaxDays)
			dates := make(map[string]bool)
			for i, e := range selection {
				assert.Equal(t, MiddayClock, e.Clock())
				assert.False(t, dates[e.Date()], "duplicate date %s", e.Date())
				dates[e.Date()] = true
				if i > 0 {
					assert.Less(t, selection[i-1].Dt, e.Dt)
				}
			}
		})
	}
}
