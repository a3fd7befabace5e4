package backlog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearMonth_Next(t *testing.T) {
	tests := []struct {
		in   YearMonth
		want YearMonth
	}{
		{NewYearMonth(2025, time.August), NewYearMonth(2025, time.September)},
		{NewYearMonth(2025, time.December), NewYearMonth(2026, time.January)},
		{NewYearMonth(1999, time.November), NewYearMonth(1999, time.December)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Next(), tt.in.String())
	}
}

func TestYearMonth_AddMonths(t *testing.T) {
	start := NewYearMonth(2025, time.August)

	assert.Equal(t, NewYearMonth(2026, time.October), start.AddMonths(14))
	assert.Equal(t, NewYearMonth(2024, time.December), start.AddMonths(-8))
	assert.Equal(t, start, start.AddMonths(0))
	assert.Equal(t, 14, start.MonthsUntil(NewYearMonth(2026, time.October)))
	assert.Equal(t, -1, start.MonthsUntil(NewYearMonth(2025, time.July)))
}

func TestYearMonth_ParseAndString(t *testing.T) {
	ym, err := ParseYearMonth("2025-08")
	require.NoError(t, err)
	assert.Equal(t, 2025, ym.Year)
	assert.Equal(t, time.August, ym.Month)
	assert.Equal(t, "2025-08", ym.String())
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), ym.FirstDay())

	for _, bad := range []string{"", "2025-13", "2025/08", "Aug 2025"} {
		_, err := ParseYearMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestYearMonth_JSON(t *testing.T) {
	var payload struct {
		Start YearMonth `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2026-01"}`), &payload))
	assert.Equal(t, NewYearMonth(2026, time.January), payload.Start)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2026-01"}`, string(out))
}

func TestYearMonth_Compare(t *testing.T) {
	a := NewYearMonth(2025, time.December)
	b := NewYearMonth(2026, time.January)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, a.Next().Equal(b))
	assert.True(t, YearMonth{}.IsZero())
	assert.False(t, YearMonth{Year: 2025, Month: 0}.Valid())
}
