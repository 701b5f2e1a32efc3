package regressor

import (
	"fmt"

	"github.com/kilianp07/farecast/core/factory"
)

// BoostedModel is a gradient-boosted tree ensemble in the xgboost style:
// base score plus the shrunk sum of the per-tree outputs.
type BoostedModel struct {
	BaseScore    float64     `json:"base_score"`
	LearningRate float64     `json:"learning_rate"`
	Trees        []TreeModel `json:"trees"`
}

func newBoosted(params map[string]any) (Regressor, error) {
	var m BoostedModel
	if err := factory.Decode(params, &m); err != nil {
		return nil, err
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("boosted model has no trees")
	}
	if m.LearningRate == 0 {
		m.LearningRate = 1
	}
	return &m, nil
}

// Predict returns base_score + learning_rate * sum of tree outputs.
func (m *BoostedModel) Predict(features []float64) (float64, error) {
	sum := 0.0
	for i := range m.Trees {
		v, err := m.Trees[i].Predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return m.BaseScore + m.LearningRate*sum, nil
}
