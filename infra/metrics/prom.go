package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/farecast/core/metrics"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	fares       *prometheus.HistogramVec
	latency     *prometheus.HistogramVec
}

// NewPromSink registers prediction metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fare_predictions_total",
		Help: "Total number of fare predictions served",
	}, []string{"model", "outcome"})
	fares := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fare_predicted_usd",
		Help:    "Distribution of predicted fares",
		Buckets: []float64{2.5, 5, 10, 20, 40, 80, 160},
	}, []string{"model"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fare_prediction_duration_seconds",
		Help:    "Time spent serving one prediction",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	if err := reg.Register(predictions); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			predictions = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fares); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fares = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{predictions: predictions, fares: fares, latency: latency}, nil
}

// RecordPrediction updates the counters and histograms for one event.
func (s *PromSink) RecordPrediction(ev coremetrics.Event) error {
	s.predictions.WithLabelValues(ev.Model, ev.Outcome()).Inc()
	if ev.Error == "" {
		s.fares.WithLabelValues(ev.Model).Observe(ev.Fare)
	}
	s.latency.WithLabelValues(ev.Model).Observe(ev.Duration.Seconds())
	return nil
}
