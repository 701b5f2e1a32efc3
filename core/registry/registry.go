// Package registry catalogues the pre-trained fare models and caches loaded
// instances for the lifetime of the process.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kilianp07/farecast/core/regressor"
)

// Identifiers lists the known model names in their fixed enumeration order.
// The single-prediction fallback scans them in this order.
var Identifiers = []string{
	"linear_regression",
	"decision_tree",
	"random_forest",
	"xgboost",
}

// Metrics holds the static evaluation figures displayed for a model. They
// come from the training run's held-out set and are purely informational.
type Metrics struct {
	RMSE string `json:"RMSE"`
	R2   string `json:"R²"`
}

// Descriptor reports one model's artifact file and current availability.
type Descriptor struct {
	Identifier string  `json:"-"`
	File       string  `json:"file"`
	Available  bool    `json:"available"`
	Metrics    Metrics `json:"metrics"`
}

var displayMetrics = map[string]Metrics{
	"linear_regression": {RMSE: "$5.24", R2: "0.82"},
	"decision_tree":     {RMSE: "$4.12", R2: "0.86"},
	"random_forest":     {RMSE: "$3.42", R2: "0.91"},
	"xgboost":           {RMSE: "$3.56", R2: "0.90"},
}

// Known reports whether id is one of the fixed model identifiers.
func Known(id string) bool {
	_, ok := displayMetrics[id]
	return ok
}

// ArtifactFile returns the artifact filename for a model identifier.
func ArtifactFile(id string) string {
	return id + "_model.json"
}

// Registry loads model artifacts from a directory and keeps every
// successfully loaded model cached until shutdown. The cache is never
// evicted; a miss is retried on the next call.
type Registry struct {
	dir string

	mu     sync.Mutex
	loaded map[string]regressor.Regressor
}

// New returns a registry reading artifacts from dir.
func New(dir string) *Registry {
	return &Registry{dir: dir, loaded: make(map[string]regressor.Regressor)}
}

// Load returns the model for id, deserializing its artifact on first use.
// An unknown identifier or a missing artifact returns (nil, nil). A present
// but undecodable artifact returns an error and caches nothing, so a
// repaired artifact is picked up on a later call. The check-then-load
// sequence runs under the registry lock so concurrent first loads
// deserialize the artifact only once.
func (r *Registry) Load(id string) (regressor.Regressor, error) {
	if !Known(id) {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.loaded[id]; ok {
		return m, nil
	}
	path := filepath.Join(r.dir, ArtifactFile(id))
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	m, err := regressor.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", id, err)
	}
	r.loaded[id] = m
	return m, nil
}

// DescribeAll reports every known model in enumeration order. Availability
// is computed fresh from the filesystem on every call, regardless of what is
// cached.
func (r *Registry) DescribeAll() []Descriptor {
	out := make([]Descriptor, 0, len(Identifiers))
	for _, id := range Identifiers {
		file := ArtifactFile(id)
		_, err := os.Stat(filepath.Join(r.dir, file))
		out = append(out, Descriptor{
			Identifier: id,
			File:       file,
			Available:  err == nil,
			Metrics:    displayMetrics[id],
		})
	}
	return out
}
