// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/nn"
)

// Shape is the ordered sequence of per-layer neuron counts.
type Shape = nn.Shape

// Network is a feed-forward network: parameters, activation, and optional
// dropout.
type Network = nn.Network

// Config holds construction parameters for a Network.
type Config = nn.Config

// ParameterStore owns the per-layer weight matrices and bias vectors.
type ParameterStore = nn.ParameterStore

// Activation is an elementwise nonlinearity with its derivative.
type Activation = nn.Activation

// Registry maps activation names to implementations.
type Registry = nn.Registry

// Initializer produces initial parameter values.
type Initializer = nn.Initializer

// Dropout samples per-mini-batch masks for hidden layers.
type Dropout = nn.Dropout

// ForwardResult holds per-layer outputs, activations, and dropout masks
// of one forward pass.
type ForwardResult = nn.ForwardResult

// Error types.
type (
	// ConfigError reports structurally invalid construction parameters.
	ConfigError = nn.ConfigError
	// UnknownActivationError reports an unregistered activation name.
	UnknownActivationError = nn.UnknownActivationError
	// ShapeMismatchError reports dimensions inconsistent with the layer shape.
	ShapeMismatchError = nn.ShapeMismatchError
	// AllocationError reports storage requests beyond resource limits.
	AllocationError = nn.AllocationError
)

// BuildFromShape constructs a fresh network for the given shape.
func BuildFromShape(shape Shape, cfg Config) (*Network, error) {
	return nn.BuildFromShape(shape, cfg)
}

// FromStore wraps an existing parameter store in a Network.
func FromStore(store *ParameterStore, cfg Config) (*Network, error) {
	return nn.FromStore(store, cfg)
}

// FromShape allocates a parameter store for the given shape.
func FromShape(shape Shape, init Initializer) (*ParameterStore, error) {
	return nn.FromShape(shape, init)
}

// Zeros initializes every parameter to zero (the default scheme).
func Zeros(fanIn, fanOut int) float64 {
	return nn.Zeros(fanIn, fanOut)
}

// Xavier returns a Glorot uniform initializer backed by src.
var Xavier = nn.Xavier

// Resolve looks up an activation in the default registry.
func Resolve(name string) (Activation, error) {
	return nn.Resolve(name)
}

// Register adds an activation to the default registry.
func Register(a Activation) {
	nn.Register(a)
}

// NewRegistry creates a registry with the built-in activations.
func NewRegistry() *Registry {
	return nn.NewRegistry()
}

// Forward runs a vectorized forward pass; see the engine documentation.
func Forward(store *ParameterStore, act Activation, batch *mat.Dense, dropout *Dropout) (*ForwardResult, error) {
	return nn.Forward(store, act, batch, dropout)
}

// Backward computes per-layer deltas for a completed forward pass.
func Backward(store *ParameterStore, act Activation, fwd *ForwardResult, target *mat.Dense) ([]*mat.Dense, error) {
	return nn.Backward(store, act, fwd, target)
}

// Apply performs one SGD step on the store.
func Apply(store *ParameterStore, deltas, activations []*mat.Dense, learningRate float64, batchSize int) error {
	return nn.Apply(store, deltas, activations, learningRate, batchSize)
}

// MSE returns the per-example mean squared error cost.
func MSE(pred, target *mat.Dense) float64 {
	return nn.MSE(pred, target)
}
