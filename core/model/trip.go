// Package model holds the request and result types shared by the prediction
// pipeline and its transport adapters.
package model

// TripRequest describes one trip to estimate a fare for. Coordinate and
// timestamp fields are pointers so that an absent field can be told apart
// from a zero value when decoding client input.
type TripRequest struct {
	PickupLatitude   *float64 `json:"pickup_latitude"`
	PickupLongitude  *float64 `json:"pickup_longitude"`
	DropoffLatitude  *float64 `json:"dropoff_latitude"`
	DropoffLongitude *float64 `json:"dropoff_longitude"`
	PickupDatetime   *string  `json:"pickup_datetime"`
	// Model optionally names the regressor to use. Empty selects the
	// configured default.
	Model string `json:"model,omitempty"`
}

// PredictionResult is the outcome of a successful single prediction. The
// fare is non-negative and rounded to two decimals, as is the reporting
// distance.
type PredictionResult struct {
	Prediction float64 `json:"prediction"`
	ModelUsed  string  `json:"model_used"`
	DistanceKm float64 `json:"distance_km"`
}

// BatchPrediction is the per-item success payload of a batch call. Batch
// responses do not carry the reporting distance.
type BatchPrediction struct {
	Prediction float64 `json:"prediction"`
	ModelUsed  string  `json:"model_used"`
}

// BatchResult holds the outcome for one position of a batch request.
// Exactly one of Result and Err is set.
type BatchResult struct {
	Result *BatchPrediction
	Err    error
}
