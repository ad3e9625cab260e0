// Package nn implements the core feed-forward network engine:
// parameter storage, activation registry, vectorized forward and backward
// passes over mini-batches, dropout, and the gradient update step.
//
// Execution is single-threaded and synchronous. Parallelism is purely the
// data-parallelism of matrix arithmetic over a mini-batch. The update step
// is the only writer of a ParameterStore and runs to completion before the
// next batch's forward pass begins.
package nn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Config holds construction parameters for a Network.
// The zero value means: sigmoid activation, zero-initialized parameters,
// no dropout, and a randomly seeded sampler.
type Config struct {
	Activation string          // Activation name (default: "sigmoid")
	Init       Initializer     // Parameter initializer (default: Zeros)
	Dropout    map[int]float64 // Per-hidden-layer keep-probabilities (default: none)
	Seed       uint64          // Seed for dropout sampling (default: random)
}

// Network composes a parameter store with an activation and an optional
// dropout configuration. It is the inference and training surface of the
// engine.
type Network struct {
	store   *ParameterStore
	act     Activation
	dropout *Dropout
}

// BuildFromShape constructs a fresh network for the given shape.
//
// Validation is eager: an invalid shape or dropout configuration returns a
// *ConfigError, an unregistered activation name an
// *UnknownActivationError, and an oversized parameter request an
// *AllocationError. No partially-constructed network is ever returned.
func BuildFromShape(shape Shape, cfg Config) (*Network, error) {
	act, err := resolveActivation(cfg)
	if err != nil {
		return nil, err
	}
	store, err := FromShape(shape, cfg.Init)
	if err != nil {
		return nil, err
	}
	return newNetwork(store, act, cfg)
}

// FromStore wraps an existing parameter store (typically one restored from
// a persisted document) in a Network.
func FromStore(store *ParameterStore, cfg Config) (*Network, error) {
	act, err := resolveActivation(cfg)
	if err != nil {
		return nil, err
	}
	return newNetwork(store, act, cfg)
}

func resolveActivation(cfg Config) (Activation, error) {
	name := cfg.Activation
	if name == "" {
		name = "sigmoid"
	}
	return Resolve(name)
}

func newNetwork(store *ParameterStore, act Activation, cfg Config) (*Network, error) {
	var dropout *Dropout
	if len(cfg.Dropout) > 0 {
		layers := store.Layers()
		for l := range cfg.Dropout {
			// Dropout applies to hidden layers only.
			if l < 1 || l > layers-2 {
				return nil, &ConfigError{Detail: fmt.Sprintf(
					"dropout layer %d out of hidden range [1, %d]", l, layers-2)}
			}
		}
		var src rand.Source
		if cfg.Seed != 0 {
			src = rand.NewSource(cfg.Seed)
		}
		var err error
		dropout, err = NewDropout(cfg.Dropout, src)
		if err != nil {
			return nil, err
		}
	}
	return &Network{store: store, act: act, dropout: dropout}, nil
}

// Store returns the network's parameter store.
func (n *Network) Store() *ParameterStore {
	return n.store
}

// Activation returns the network's activation function.
func (n *Network) Activation() Activation {
	return n.act
}

// Dropout returns the network's dropout sampler, or nil if dropout is not
// configured.
func (n *Network) Dropout() *Dropout {
	return n.dropout
}

// Predict runs an inference forward pass over a batch of examples
// (examples as columns, shape[0] rows) and returns the final activation
// with dimensions (shape[L-1], k). Dropout is disabled.
func (n *Network) Predict(batch *mat.Dense) (*mat.Dense, error) {
	fwd, err := Forward(n.store, n.act, batch, nil)
	if err != nil {
		return nil, err
	}
	return fwd.Final(), nil
}
