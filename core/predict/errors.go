package predict

import (
	"errors"

	"github.com/kilianp07/farecast/core/feature"
)

// MissingFieldError names the first absent required field of a request.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return "missing required field: " + e.Field
}

// ErrNoModelAvailable is returned when no model artifact can be found at all.
var ErrNoModelAvailable = errors.New("no models available for prediction")

// PredictionFailedError wraps a fault raised while loading or invoking a
// model, so callers see a structured error instead of raw internals.
type PredictionFailedError struct {
	Err error
}

func (e *PredictionFailedError) Error() string {
	return "prediction failed: " + e.Err.Error()
}

func (e *PredictionFailedError) Unwrap() error { return e.Err }

// IsClientError reports whether err stems from incomplete or malformed
// request input rather than server-side state. Transport adapters use it to
// pick the response status.
func IsClientError(err error) bool {
	var missing *MissingFieldError
	var invalid *feature.InvalidTimestampError
	return errors.As(err, &missing) || errors.As(err, &invalid)
}
