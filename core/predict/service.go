package predict

import (
	"math"

	"github.com/kilianp07/farecast/core/feature"
	"github.com/kilianp07/farecast/core/geo"
	"github.com/kilianp07/farecast/core/logger"
	"github.com/kilianp07/farecast/core/model"
	"github.com/kilianp07/farecast/core/registry"
	"github.com/kilianp07/farecast/core/regressor"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "random_forest"

// batchFallbackModel replaces an unavailable model in batch mode. Unlike the
// single path, batch items do not scan the enumeration order for the first
// available model; this asymmetry matches the observed behaviour of the
// trained pipeline.
const batchFallbackModel = "linear_regression"

// requiredFields is the fixed validation order for trip requests.
var requiredFields = []string{
	"pickup_latitude",
	"pickup_longitude",
	"dropoff_latitude",
	"dropoff_longitude",
	"pickup_datetime",
}

// Service answers single and batch fare prediction requests.
type Service struct {
	registry     *registry.Registry
	defaultModel string
	log          logger.Logger
}

// New returns a prediction service backed by reg. An empty defaultModel
// selects DefaultModel; a nil log discards debug output.
func New(reg *registry.Registry, defaultModel string, log logger.Logger) *Service {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	if log == nil {
		log = discardLogger{}
	}
	return &Service{registry: reg, defaultModel: defaultModel, log: log}
}

// Predict estimates the fare for one trip. Validation errors and an invalid
// timestamp surface as client-input errors; resource absence and inference
// faults surface as ErrNoModelAvailable and PredictionFailedError.
func (s *Service) Predict(req model.TripRequest) (model.PredictionResult, error) {
	if err := validate(req); err != nil {
		return model.PredictionResult{}, err
	}

	m, used, err := s.resolve(req.Model)
	if err != nil {
		return model.PredictionResult{}, err
	}

	features, err := feature.Build(
		*req.PickupLatitude, *req.PickupLongitude,
		*req.DropoffLatitude, *req.DropoffLongitude,
		*req.PickupDatetime,
	)
	if err != nil {
		return model.PredictionResult{}, err
	}

	raw, err := m.Predict(features)
	if err != nil {
		return model.PredictionResult{}, &PredictionFailedError{Err: err}
	}

	res := model.PredictionResult{
		Prediction: round2(math.Max(0, raw)),
		ModelUsed:  used,
		DistanceKm: round2(geo.Distance(
			*req.PickupLatitude, *req.PickupLongitude,
			*req.DropoffLatitude, *req.DropoffLongitude,
		)),
	}
	s.log.Debugw("prediction served", map[string]any{
		"model":       res.ModelUsed,
		"prediction":  res.Prediction,
		"distance_km": res.DistanceKm,
	})
	return res, nil
}

// BatchPredict scores items independently: one output per input position, in
// order, with failures captured per item. A nil items slice means the
// request carried no predictions container at all.
func (s *Service) BatchPredict(items []model.TripRequest) ([]model.BatchResult, error) {
	if items == nil {
		return nil, &MissingFieldError{Field: "predictions"}
	}
	out := make([]model.BatchResult, len(items))
	for i, item := range items {
		res, err := s.predictItem(item)
		if err != nil {
			out[i] = model.BatchResult{Err: err}
			continue
		}
		out[i] = model.BatchResult{Result: res}
	}
	return out, nil
}

func (s *Service) predictItem(req model.TripRequest) (*model.BatchPrediction, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	features, err := feature.Build(
		*req.PickupLatitude, *req.PickupLongitude,
		*req.DropoffLatitude, *req.DropoffLongitude,
		*req.PickupDatetime,
	)
	if err != nil {
		return nil, err
	}

	id := req.Model
	if id == "" {
		id = s.defaultModel
	}
	m, err := s.registry.Load(id)
	if err != nil {
		return nil, &PredictionFailedError{Err: err}
	}
	if m == nil {
		id = batchFallbackModel
		if m, err = s.registry.Load(id); err != nil {
			return nil, &PredictionFailedError{Err: err}
		}
	}
	if m == nil {
		return nil, ErrNoModelAvailable
	}

	raw, err := m.Predict(features)
	if err != nil {
		return nil, &PredictionFailedError{Err: err}
	}
	return &model.BatchPrediction{Prediction: round2(math.Max(0, raw)), ModelUsed: id}, nil
}

// resolve loads the requested model, falling back to the first available
// identifier in registry enumeration order when it has no artifact.
func (s *Service) resolve(requested string) (regressor.Regressor, string, error) {
	id := requested
	if id == "" {
		id = s.defaultModel
	}
	m, err := s.registry.Load(id)
	if err != nil {
		return nil, "", &PredictionFailedError{Err: err}
	}
	if m != nil {
		return m, id, nil
	}

	for _, d := range s.registry.DescribeAll() {
		if !d.Available {
			continue
		}
		m, err := s.registry.Load(d.Identifier)
		if err != nil {
			return nil, "", &PredictionFailedError{Err: err}
		}
		if m == nil {
			// Artifact vanished between the availability check and the
			// load; keep scanning.
			continue
		}
		s.log.Infof("model %s unavailable, falling back to %s", id, d.Identifier)
		return m, d.Identifier, nil
	}
	return nil, "", ErrNoModelAvailable
}

func validate(req model.TripRequest) error {
	present := map[string]bool{
		"pickup_latitude":   req.PickupLatitude != nil,
		"pickup_longitude":  req.PickupLongitude != nil,
		"dropoff_latitude":  req.DropoffLatitude != nil,
		"dropoff_longitude": req.DropoffLongitude != nil,
		"pickup_datetime":   req.PickupDatetime != nil,
	}
	for _, f := range requiredFields {
		if !present[f] {
			return &MissingFieldError{Field: f}
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type discardLogger struct{}

func (discardLogger) Debugf(string, ...any)         {}
func (discardLogger) Debugw(string, map[string]any) {}
func (discardLogger) Infof(string, ...any)          {}
func (discardLogger) Warnf(string, ...any)          {}
func (discardLogger) Errorf(string, ...any)         {}
