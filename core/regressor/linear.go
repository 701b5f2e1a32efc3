package regressor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/farecast/core/factory"
)

// LinearModel is an ordinary least squares fare model.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func newLinear(params map[string]any) (Regressor, error) {
	var m LinearModel
	if err := factory.Decode(params, &m); err != nil {
		return nil, err
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	return &m, nil
}

// Predict returns intercept + w·x.
func (m *LinearModel) Predict(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("feature vector length %d, want %d", len(features), len(m.Coefficients))
	}
	w := mat.NewVecDense(len(m.Coefficients), m.Coefficients)
	x := mat.NewVecDense(len(features), features)
	return m.Intercept + mat.Dot(w, x), nil
}
