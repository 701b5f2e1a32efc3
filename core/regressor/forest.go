package regressor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/farecast/core/factory"
)

// ForestModel averages an ensemble of regression trees.
type ForestModel struct {
	Trees []TreeModel `json:"trees"`
}

func newForest(params map[string]any) (Regressor, error) {
	var m ForestModel
	if err := factory.Decode(params, &m); err != nil {
		return nil, err
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("forest model has no trees")
	}
	return &m, nil
}

// Predict returns the mean of the per-tree estimates.
func (m *ForestModel) Predict(features []float64) (float64, error) {
	estimates := make([]float64, len(m.Trees))
	for i := range m.Trees {
		v, err := m.Trees[i].Predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		estimates[i] = v
	}
	return floats.Sum(estimates) / float64(len(estimates)), nil
}
