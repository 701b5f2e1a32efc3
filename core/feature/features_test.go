package feature

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Feature vector positions.
const (
	idxDistance = iota
	idxHour
	idxDayOfWeek
	idxMonth
	idxYear
	idxPickupLat
	idxPickupLon
	idxDropoffLat
	idxDropoffLon
	idxMorning
	idxAfternoon
	idxEvening
	idxNight
	idxWeekend
	idxRushHour
	idxPeakHour
)

func TestBuildManhattanSaturdayMorning(t *testing.T) {
	v, err := Build(40.7128, -74.0060, 40.7589, -73.9851, "2024-06-15T08:30:00")
	require.NoError(t, err)
	require.Len(t, v, Size)

	assert.InDelta(t, 5.4, v[idxDistance], 0.2)
	assert.Equal(t, 8.0, v[idxHour])
	// 2024-06-15 is a Saturday, Monday-indexed day 5.
	assert.Equal(t, 5.0, v[idxDayOfWeek])
	assert.Equal(t, 6.0, v[idxMonth])
	assert.Equal(t, 2024.0, v[idxYear])
	assert.Equal(t, 40.7128, v[idxPickupLat])
	assert.Equal(t, -74.0060, v[idxPickupLon])
	assert.Equal(t, 40.7589, v[idxDropoffLat])
	assert.Equal(t, -73.9851, v[idxDropoffLon])
	assert.Equal(t, 1.0, v[idxMorning])
	assert.Equal(t, 0.0, v[idxAfternoon])
	assert.Equal(t, 0.0, v[idxEvening])
	assert.Equal(t, 0.0, v[idxNight])
	assert.Equal(t, 1.0, v[idxWeekend])
	assert.Equal(t, 1.0, v[idxRushHour])
	assert.Equal(t, 1.0, v[idxPeakHour])
}

func TestBuildTimeOfDayFlagsPartitionDay(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		ts := fmt.Sprintf("2024-06-17T%02d:00:00", hour)
		v, err := Build(0, 0, 0, 0, ts)
		require.NoError(t, err)

		sum := v[idxMorning] + v[idxAfternoon] + v[idxEvening] + v[idxNight]
		assert.Equal(t, 1.0, sum, "hour %d", hour)

		wantRush := (hour >= 7 && hour < 10) || (hour >= 16 && hour < 19)
		assert.Equal(t, flag(wantRush), v[idxRushHour], "hour %d", hour)

		wantPeak := hour == 8 || hour == 9 || hour == 17 || hour == 18 || hour == 19 || hour == 20
		assert.Equal(t, flag(wantPeak), v[idxPeakHour], "hour %d", hour)
	}
}

func TestBuildWeekendFlag(t *testing.T) {
	cases := []struct {
		date    string
		weekend float64
		day     float64
	}{
		{"2024-06-17", 0, 0}, // Monday
		{"2024-06-21", 0, 4}, // Friday
		{"2024-06-22", 1, 5}, // Saturday
		{"2024-06-23", 1, 6}, // Sunday
	}
	for _, c := range cases {
		v, err := Build(0, 0, 0, 0, c.date)
		require.NoError(t, err)
		assert.Equal(t, c.weekend, v[idxWeekend], c.date)
		assert.Equal(t, c.day, v[idxDayOfWeek], c.date)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, value := range []string{
		"2024-06-15T08:30:00Z",
		"2024-06-15T08:30:00",
		"2024-06-15 08:30:00",
		"2024-06-15",
	} {
		ts, err := ParseTimestamp(value)
		require.NoError(t, err, value)
		assert.Equal(t, 2024, ts.Year())
	}
}

func TestBuildInvalidTimestamp(t *testing.T) {
	_, err := Build(0, 0, 0, 0, "not-a-date")
	var invalid *InvalidTimestampError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "not-a-date", invalid.Value)
}
