package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name  string  `json:"name"`
	Scale float64 `json:"scale"`
}

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry[*widget]()
	require.NoError(t, r.Register("widget", func(params map[string]any) (*widget, error) {
		var w widget
		if err := Decode(params, &w); err != nil {
			return nil, err
		}
		return &w, nil
	}))

	w, err := r.Create(Spec{Kind: "widget", Params: map[string]any{"name": "a", "scale": 2.5}})
	require.NoError(t, err)
	assert.Equal(t, "a", w.Name)
	assert.Equal(t, 2.5, w.Scale)
}

func TestRegistryUnknownKind(t *testing.T) {
	r := NewRegistry[*widget]()
	_, err := r.Create(Spec{Kind: "missing"})
	assert.Error(t, err)
}

func TestRegistryDuplicateRegister(t *testing.T) {
	r := NewRegistry[*widget]()
	b := func(map[string]any) (*widget, error) { return &widget{}, nil }
	require.NoError(t, r.Register("widget", b))
	assert.Error(t, r.Register("widget", b))
	assert.Error(t, r.Register("nil", nil))
}
