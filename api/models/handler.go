// Package models exposes the model catalog and the service health summary.
package models

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/farecast/core/registry"
)

// NewListHandler returns the GET /api/models handler: every known model with
// its artifact file, live availability and display metrics, keyed by
// identifier.
func NewListHandler(reg *registry.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		out := make(map[string]registry.Descriptor, len(registry.Identifiers))
		for _, d := range reg.DescribeAll() {
			out[d.Identifier] = d
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

type healthPayload struct {
	Status          string `json:"status"`
	ModelsAvailable int    `json:"models_available"`
	TotalModels     int    `json:"total_models"`
}

// NewHealthHandler returns the GET /health handler, a read-only aggregate
// over the model catalog.
func NewHealthHandler(reg *registry.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		descs := reg.DescribeAll()
		available := 0
		for _, d := range descs {
			if d.Available {
				available++
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(healthPayload{
			Status:          "healthy",
			ModelsAvailable: available,
			TotalModels:     len(descs),
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
