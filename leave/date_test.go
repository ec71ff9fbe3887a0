package leave_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leavetrack/leave"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-07-04", "2025-07-04"},
		{" 2025-07-04 ", "2025-07-04"},
		{"2025-07-04T00:00:00Z", "2025-07-04"},
		{"2025-07-04T23:30:00-07:00", "2025-07-04"},
		{"2025-07-04T01:00:00+09:00", "2025-07-04"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := leave.ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"", "07/04/2025", "2025-13-01", "tomorrow"} {
		_, err := leave.ParseDate(in)
		assert.ErrorIs(t, err, leave.ErrValidation, "input %q", in)
	}
}

func TestDate_NormalizesTimeOfDay(t *testing.T) {
	morning := leave.DateOf(time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC))
	night := leave.DateOf(time.Date(2025, 7, 4, 23, 59, 59, 0, time.UTC))

	assert.True(t, morning.Equal(night))
	assert.Equal(t, leave.NewDate(2025, time.July, 4), morning)
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Day leave.Date `json:"day"`
	}

	b, err := json.Marshal(payload{Day: leave.NewDate(2025, time.December, 25)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-12-25"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2025-12-25"}`), &p))
	assert.Equal(t, 2025, p.Day.Year())
	assert.Equal(t, time.December, p.Day.Month())
	assert.Equal(t, 25, p.Day.Day())
}

func TestSpan(t *testing.T) {
	span := leave.Span{Start: date("2025-02-27"), End: date("2025-03-02")}

	assert.Equal(t, 4, span.Len())
	assert.NoError(t, span.Validate())

	days := span.Days()
	require.Len(t, days, 4)
	assert.Equal(t, "2025-02-27", days[0].String())
	assert.Equal(t, "2025-03-01", days[2].String())
	assert.Equal(t, "2025-03-02", days[3].String())
}

func TestSpan_EndBeforeStart(t *testing.T) {
	span := leave.Span{Start: date("2025-03-02"), End: date("2025-03-01")}

	err := span.Validate()

	assert.ErrorIs(t, err, leave.ErrValidation)
	assert.Contains(t, err.Error(), "end date cannot be before start date")
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	// US DST starts 2025-03-09; dates are UTC so the count is exact
	assert.Equal(t, 7, leave.DaysBetween(date("2025-03-05"), date("2025-03-12")))
	assert.Equal(t, -1, leave.DaysBetween(date("2025-03-05"), date("2025-03-04")))
}

func TestDaysBetween_LongSpans(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"1925-07-04", "2025-07-04", 36525},
		{"1900-01-01", "2500-12-31", 219510},
		{"2500-12-31", "1900-01-01", -219510},
	}
	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, leave.DaysBetween(date(tt.from), date(tt.to)))
		})
	}

	span := leave.Span{Start: date("1900-01-01"), End: date("2500-12-31")}
	assert.Equal(t, 219511, span.Len())
}

func TestCountries(t *testing.T) {
	countries := leave.Countries()

	require.Len(t, countries, 8)
	assert.Equal(t, "AU", countries[0].Code)
	assert.Equal(t, "United States", leave.CountryName("US"))
	assert.Equal(t, "XX", leave.CountryName("XX"))
}
