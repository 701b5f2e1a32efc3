// Package fares exposes the prediction pipeline over HTTP.
package fares

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/farecast/core/logger"
	coremetrics "github.com/kilianp07/farecast/core/metrics"
	"github.com/kilianp07/farecast/core/model"
	"github.com/kilianp07/farecast/core/predict"
	infralogger "github.com/kilianp07/farecast/infra/logger"
	"github.com/kilianp07/farecast/internal/eventbus"
)

type errorPayload struct {
	Error string `json:"error"`
}

// batchEntry is the wire form of one batch position: either a prediction or
// an error, never both.
type batchEntry struct {
	Prediction *float64 `json:"prediction,omitempty"`
	ModelUsed  string   `json:"model_used,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// NewPredictHandler returns the POST /api/predict handler. Events for served
// and failed predictions are published on bus when it is non-nil.
func NewPredictHandler(svc *predict.Service, bus *eventbus.Bus, log logger.Logger) http.Handler {
	if log == nil {
		log = infralogger.NopLogger{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req model.TripRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid JSON body"})
			return
		}

		start := time.Now()
		res, err := svc.Predict(req)
		if err != nil {
			status := http.StatusInternalServerError
			if predict.IsClientError(err) {
				status = http.StatusBadRequest
			}
			log.Warnf("predict failed: %v", err)
			publish(bus, req, coremetrics.Event{
				Model:    req.Model,
				Duration: time.Since(start),
				Error:    err.Error(),
			})
			writeJSON(w, status, errorPayload{Error: err.Error()})
			return
		}

		publish(bus, req, coremetrics.Event{
			Model:      res.ModelUsed,
			Fare:       res.Prediction,
			DistanceKm: res.DistanceKm,
			Duration:   time.Since(start),
		})
		writeJSON(w, http.StatusOK, res)
	})
}

// NewBatchHandler returns the POST /api/batch-predict handler. The response
// is a parallel array: one entry per input item, success or error.
func NewBatchHandler(svc *predict.Service, bus *eventbus.Bus, log logger.Logger) http.Handler {
	if log == nil {
		log = infralogger.NopLogger{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Predictions []model.TripRequest `json:"predictions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Error: "invalid JSON body"})
			return
		}

		start := time.Now()
		results, err := svc.BatchPredict(req.Predictions)
		if err != nil {
			status := http.StatusInternalServerError
			if predict.IsClientError(err) {
				status = http.StatusBadRequest
			}
			writeJSON(w, status, errorPayload{Error: err.Error()})
			return
		}

		perItem := time.Since(start)
		if len(results) > 0 {
			perItem /= time.Duration(len(results))
		}
		entries := make([]batchEntry, len(results))
		for i, res := range results {
			item := req.Predictions[i]
			if res.Err != nil {
				entries[i] = batchEntry{Error: res.Err.Error()}
				publish(bus, item, coremetrics.Event{
					Model:    item.Model,
					Batch:    true,
					Duration: perItem,
					Error:    res.Err.Error(),
				})
				continue
			}
			p := res.Result.Prediction
			entries[i] = batchEntry{Prediction: &p, ModelUsed: res.Result.ModelUsed}
			publish(bus, item, coremetrics.Event{
				Model:    res.Result.ModelUsed,
				Fare:     res.Result.Prediction,
				Batch:    true,
				Duration: perItem,
			})
		}
		log.Debugf("batch of %d served", len(entries))
		writeJSON(w, http.StatusOK, entries)
	})
}

// publish fills the identifying and request-echo fields and emits the event.
func publish(bus *eventbus.Bus, req model.TripRequest, ev coremetrics.Event) {
	if bus == nil {
		return
	}
	ev.ID = uuid.NewString()
	ev.Timestamp = time.Now().UTC()
	if req.PickupLatitude != nil {
		ev.PickupLat = *req.PickupLatitude
	}
	if req.PickupLongitude != nil {
		ev.PickupLon = *req.PickupLongitude
	}
	if req.DropoffLatitude != nil {
		ev.DropoffLat = *req.DropoffLatitude
	}
	if req.DropoffLongitude != nil {
		ev.DropoffLon = *req.DropoffLongitude
	}
	if req.PickupDatetime != nil {
		ev.PickupTime = *req.PickupDatetime
	}
	bus.Publish(ev)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
