package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonStartYear(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"opening month", time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), 2024},
		{"december", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), 2024},
		{"new year", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), 2024},
		{"offseason", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), 2024},
		{"last day before tipoff", time.Date(2025, 9, 30, 23, 59, 0, 0, time.UTC), 2024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonStartYear(tt.at))
		})
	}
}

func TestSeasonLabel(t *testing.T) {
	assert.Equal(t, "2023-24", SeasonLabel(2023))
	assert.Equal(t, "1999-00", SeasonLabel(1999))
	assert.Equal(t, "2009-10", SeasonLabel(2009))
}

func TestSeasonWindow(t *testing.T) {
	at := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t,
		[]string{"2020-21", "2021-22", "2022-23", "2023-24", "2024-25"},
		SeasonWindow(at, 5))
	assert.Equal(t, []string{"2024-25"}, SeasonWindow(at, 0))
}
