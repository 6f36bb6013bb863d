package ingest

import (
	"fmt"
	"time"
)

// SeasonStartYear returns the calendar year the season in progress at t began.
// Seasons tip off in October.
func SeasonStartYear(t time.Time) int {
	if t.Month() >= time.October {
		return t.Year()
	}
	return t.Year() - 1
}

// SeasonLabel formats a season the way the provider expects, e.g. 2023 -> "2023-24".
func SeasonLabel(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}

// CurrentSeason is the label of the season in progress at t.
func CurrentSeason(t time.Time) string {
	return SeasonLabel(SeasonStartYear(t))
}

// SeasonWindow lists the trailing lookback seasons ending with the current
// one, oldest first.
func SeasonWindow(t time.Time, lookback int) []string {
	if lookback < 1 {
		lookback = 1
	}
	current := SeasonStartYear(t)
	seasons := make([]string, 0, lookback)
	for y := current - lookback + 1; y <= current; y++ {
		seasons = append(seasons, SeasonLabel(y))
	}
	return seasons
}
