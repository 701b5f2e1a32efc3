// Package factory provides a small generic registry mapping artifact kind
// names to builder functions. The regressor package uses it to turn decoded
// model artifacts into concrete implementations.
package factory

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// Spec contains the kind name and raw parameters of a serialized artifact.
type Spec struct {
	Kind   string         `json:"kind"`
	Params map[string]any `json:"params"`
}

// Builder constructs an implementation of T from raw artifact parameters.
type Builder[T any] func(params map[string]any) (T, error)

// Registry stores builders keyed by artifact kind.
type Registry[T any] struct {
	mu       sync.RWMutex
	builders map[string]Builder[T]
}

// NewRegistry returns an empty builder registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{builders: make(map[string]Builder[T])}
}

// Register adds a builder for the given kind name.
func (r *Registry[T]) Register(kind string, b Builder[T]) error {
	if b == nil {
		return fmt.Errorf("builder nil for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.builders[kind]; ok {
		return fmt.Errorf("builder already registered for %s", kind)
	}
	r.builders[kind] = b
	return nil
}

// Create instantiates an artifact based on its spec.
func (r *Registry[T]) Create(spec Spec) (T, error) {
	r.mu.RLock()
	b, ok := r.builders[spec.Kind]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown artifact kind %s", spec.Kind)
	}
	return b(spec.Params)
}

// Decode fills out the provided struct using json tags.
func Decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(params)
}
