// Package regressor implements the pre-trained fare models. A model is an
// opaque object satisfying the Regressor capability: it accepts one
// fixed-length numeric feature vector and returns a scalar estimate.
// Artifacts are JSON files of the form {"kind": ..., "params": ...} built by
// the training pipeline.
package regressor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kilianp07/farecast/core/factory"
)

// Regressor scores one feature vector. The caller is responsible for
// clamping and rounding the raw estimate.
type Regressor interface {
	Predict(features []float64) (float64, error)
}

// builders maps artifact kinds to their constructors.
var builders = newBuilders()

func newBuilders() *factory.Registry[Regressor] {
	r := factory.NewRegistry[Regressor]()
	for kind, b := range map[string]factory.Builder[Regressor]{
		"linear": newLinear,
		"tree":   newTree,
		"forest": newForest,
		"gbt":    newBoosted,
	} {
		if err := r.Register(kind, b); err != nil {
			panic(err)
		}
	}
	return r
}

// New constructs the regressor described by spec.
func New(spec factory.Spec) (Regressor, error) {
	return builders.Create(spec)
}

// LoadFile reads a JSON model artifact and constructs the regressor it
// describes.
func LoadFile(path string) (Regressor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var spec factory.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	return New(spec)
}
