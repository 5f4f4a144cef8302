package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseDeparture converts an "HH:MM" departure into minutes after midnight.
// Hours up to 29 are accepted for runs that finish after midnight.
func ParseDeparture(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 29 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatDeparture is the inverse of ParseDeparture.
func FormatDeparture(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesOfDay returns the wall-clock minutes of t in its own location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

type HourDepartures struct {
	Hour  int      `json:"hour"`
	Times []string `json:"times"`
}

// GroupByHour sorts departures and buckets them by hour. Malformed entries are skipped.
func GroupByHour(times []string) []HourDepartures {
	minutes := sortedDepartures(times)
	groups := []HourDepartures{}
	for _, m := range minutes {
		hour := m / 60
		if n := len(groups); n == 0 || groups[n-1].Hour != hour {
			groups = append(groups, HourDepartures{Hour: hour})
		}
		groups[len(groups)-1].Times = append(groups[len(groups)-1].Times, FormatDeparture(m))
	}
	return groups
}

// NearestDepartures returns up to limit departures at or after now, ascending.
func NearestDepartures(times []string, now int, limit int) []string {
	nearest := []string{}
	for _, m := range sortedDepartures(times) {
		if len(nearest) == limit {
			break
		}
		if m >= now {
			nearest = append(nearest, FormatDeparture(m))
		}
	}
	return nearest
}

func sortedDepartures(times []string) []int {
	minutes := make([]int, 0, len(times))
	for _, t := range times {
		if m, ok := ParseDeparture(t); ok {
			minutes = append(minutes, m)
		}
	}
	sort.Ints(minutes)
	return minutes
}
