// Package metrics defines the sink interface prediction events are exported
// through. Concrete backends live under infra/metrics.
package metrics

import "time"

// Event describes one served prediction, successful or not. It carries the
// request echo so recording backends need no access to the original request.
type Event struct {
	ID         string
	Timestamp  time.Time
	Model      string
	Fare       float64
	DistanceKm float64
	PickupLat  float64
	PickupLon  float64
	DropoffLat float64
	DropoffLon float64
	PickupTime string
	Batch      bool
	Duration   time.Duration
	Error      string
}

// Outcome returns the label used to partition metrics by result.
func (e Event) Outcome() string {
	if e.Error != "" {
		return "error"
	}
	return "success"
}

// Sink exports prediction events to a monitoring backend.
type Sink interface {
	RecordPrediction(ev Event) error
}

// NopSink drops all events.
type NopSink struct{}

func (NopSink) RecordPrediction(Event) error { return nil }

// MultiSink fans events out to several sinks and reports the first error.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordPrediction(ev Event) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordPrediction(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
