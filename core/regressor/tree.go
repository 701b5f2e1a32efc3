package regressor

import (
	"fmt"

	"github.com/kilianp07/farecast/core/factory"
)

// TreeNode is one node of a flattened regression tree. Leaf nodes carry the
// estimate in Value; internal nodes route on Feature at Threshold to the
// child indexes Left and Right.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// TreeModel is a single CART regression tree stored as a node array rooted
// at index 0.
type TreeModel struct {
	Nodes []TreeNode `json:"nodes"`
}

func newTree(params map[string]any) (Regressor, error) {
	var m TreeModel
	if err := factory.Decode(params, &m); err != nil {
		return nil, err
	}
	if len(m.Nodes) == 0 {
		return nil, fmt.Errorf("tree model has no nodes")
	}
	return &m, nil
}

// Predict walks the tree from the root to a leaf. A malformed tree (cycle,
// dangling index, split on a missing feature) returns an error rather than
// looping forever.
func (m *TreeModel) Predict(features []float64) (float64, error) {
	i := 0
	for steps := 0; steps <= len(m.Nodes); steps++ {
		if i < 0 || i >= len(m.Nodes) {
			return 0, fmt.Errorf("tree node index %d out of range", i)
		}
		n := m.Nodes[i]
		if n.Leaf {
			return n.Value, nil
		}
		if n.Feature < 0 || n.Feature >= len(features) {
			return 0, fmt.Errorf("tree splits on feature %d, vector has %d", n.Feature, len(features))
		}
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return 0, fmt.Errorf("tree walk did not reach a leaf")
}
