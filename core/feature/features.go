// Package feature derives the model input vector from raw trip attributes.
package feature

import (
	"fmt"
	"time"

	"github.com/kilianp07/farecast/core/geo"
)

// Size is the length of the feature vector the regressors were trained on.
const Size = 16

// timeLayouts lists the accepted pickup_datetime forms, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// InvalidTimestampError reports a pickup_datetime no accepted layout could
// parse.
type InvalidTimestampError struct {
	Value string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid pickup_datetime: %q", e.Value)
}

// ParseTimestamp parses the textual pickup time.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &InvalidTimestampError{Value: value}
}

// peakHours marks the hours with historically elevated NYC taxi demand.
var peakHours = map[int]bool{8: true, 9: true, 17: true, 18: true, 19: true, 20: true}

// Build derives the ordered feature vector for one trip. The order matches
// the training pipeline and must not change:
// [distance_km, hour, day_of_week, month, year, pickup_lat, pickup_lon,
// dropoff_lat, dropoff_lon, is_morning, is_afternoon, is_evening, is_night,
// is_weekend, is_rush_hour, is_peak_hour].
// day_of_week is 0=Monday..6=Sunday. The four time-of-day flags are mutually
// exclusive; the weekend, rush-hour and peak-hour flags may overlap freely.
func Build(pickupLat, pickupLon, dropoffLat, dropoffLon float64, pickupDatetime string) ([]float64, error) {
	t, err := ParseTimestamp(pickupDatetime)
	if err != nil {
		return nil, err
	}

	distance := geo.Distance(pickupLat, pickupLon, dropoffLat, dropoffLon)
	hour := t.Hour()
	dayOfWeek := mondayIndexed(t.Weekday())

	return []float64{
		distance,
		float64(hour),
		float64(dayOfWeek),
		float64(int(t.Month())),
		float64(t.Year()),
		pickupLat,
		pickupLon,
		dropoffLat,
		dropoffLon,
		flag(hour >= 6 && hour < 12),
		flag(hour >= 12 && hour < 18),
		flag(hour >= 18 && hour < 22),
		flag(hour >= 22 || hour < 6),
		flag(dayOfWeek >= 5),
		flag((hour >= 7 && hour < 10) || (hour >= 16 && hour < 19)),
		flag(peakHours[hour]),
	}, nil
}

// mondayIndexed converts Go's Sunday-first weekday to the 0=Monday..6=Sunday
// convention the models were trained with.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
