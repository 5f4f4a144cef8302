package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDeparture(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"07:40", 7*60 + 40, true},
		{"7:05", 7*60 + 5, true},
		{"00:00", 0, true},
		{"24:15", 24*60 + 15, true},
		{"7:5", 0, false},
		{"ab:cd", 0, false},
		{"12:60", 0, false},
		{"", 0, false},
		{"0740", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDeparture(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestGroupByHour(t *testing.T) {
	groups := GroupByHour([]string{"08:05", "07:40", "bogus", "7:10", "09:00"})

	assert.Equal(t, []HourDepartures{
		{Hour: 7, Times: []string{"07:10", "07:40"}},
		{Hour: 8, Times: []string{"08:05"}},
		{Hour: 9, Times: []string{"09:00"}},
	}, groups)

	assert.Empty(t, GroupByHour(nil))
}

func TestNearestDepartures(t *testing.T) {
	now := MinutesOfDay(time.Date(2025, 6, 2, 7, 30, 0, 0, time.UTC))

	t.Run("only departures at or after now", func(t *testing.T) {
		got := NearestDepartures([]string{"07:10", "07:40", "08:05"}, now, 5)
		assert.Equal(t, []string{"07:40", "08:05"}, got)
	})

	t.Run("departure exactly now is included", func(t *testing.T) {
		got := NearestDepartures([]string{"07:30"}, now, 5)
		assert.Equal(t, []string{"07:30"}, got)
	})

	t.Run("limited and ordered", func(t *testing.T) {
		times := []string{"12:00", "08:00", "09:00", "10:00", "11:00", "13:00", "07:31"}
		got := NearestDepartures(times, now, 5)
		assert.Equal(t, []string{"07:31", "08:00", "09:00", "10:00", "11:00"}, got)
	})

	t.Run("none left today", func(t *testing.T) {
		got := NearestDepartures([]string{"06:00"}, now, 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}
