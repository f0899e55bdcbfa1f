package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestWeekdayLabel(t *testing.T) {
	// 2024-05-01 is a Wednesday
	e := entry(day("2024-05-01 12:00:00"))

	tests := []struct {
		lang string
		want string
	}{
		{"en", "Wed"},
		{"sv", "ons"},
		{"sv-SE", "ons"},
		{"de", "Mi"},
		{"fr", "mer."},
		{"ja", "Wed"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekdayLabel(e, language.MustParse(tt.lang)))
		})
	}
}

func TestIsSameDay(t *testing.T) {
	e := entry(day("2024-05-01 12:00:00"))

	assert.True(t, IsSameDay(e, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsSameDay(e, time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)))
	assert.False(t, IsSameDay(e, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsSameDay(e, time.Date(2024, 4, 30, 23, 0, 0, 0, time.UTC)))

	// the date printed in dt_txt decides, whatever the viewer's offset
	tonga := time.FixedZone("UTC+13", 13*3600)
	assert.False(t, IsSameDay(e, time.Date(2024, 5, 2, 8, 0, 0, 0, tonga)))
	assert.True(t, IsSameDay(entry(day("2024-05-02 12:00:00")), time.Date(2024, 5, 2, 8, 0, 0, 0, tonga)))

	honolulu := time.FixedZone("UTC-10", -10*3600)
	assert.True(t, IsSameDay(e, time.Date(2024, 5, 1, 20, 0, 0, 0, honolulu)))
}

func TestMatchLanguage(t *testing.T) {
	assert.Equal(t, language.Swedish, MatchLanguage(language.MustParse("sv-FI")))
	assert.Equal(t, language.English, MatchLanguage(language.MustParse("zu")))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Clear sky", Describe("clear sky", language.English))
	assert.Equal(t, "Lätt regn", Describe("lätt regn", language.Swedish))
	assert.Equal(t, "Mist", Describe("mist", language.English))
	assert.Equal(t, "", Describe("", language.English))
}
