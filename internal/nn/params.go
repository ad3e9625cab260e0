package nn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Initializer produces the initial value for a single weight or bias
// element, given the fan-in and fan-out of its layer.
type Initializer func(fanIn, fanOut int) float64

// Zeros initializes every element to zero. This is the default scheme.
func Zeros(fanIn, fanOut int) float64 {
	return 0
}

// Xavier returns a Glorot uniform initializer drawing from
// U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))). It helps maintain
// activation variance across layers when training from scratch.
func Xavier(src rand.Source) Initializer {
	rng := rand.New(src)
	return func(fanIn, fanOut int) float64 {
		bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
		return (rng.Float64()*2.0 - 1.0) * bound
	}
}

// ParameterStore owns the per-layer weight matrices and bias vectors of a
// network. For a shape of L layers it holds L-1 weights and L-1 biases:
// weight l has dimensions (shape[l], shape[l-1]) and bias l has dimensions
// (shape[l], 1), for 1 <= l < L.
//
// The store is created from a shape (fresh network) or committed from a
// validated persisted document (restored network), and is mutated in place
// only by the update step.
type ParameterStore struct {
	shape   Shape
	weights []*mat.Dense // weights[l-1] is the weight matrix of layer l
	biases  []*mat.Dense // biases[l-1] is the bias vector of layer l
}

// FromShape allocates a parameter store for the given shape. Elements are
// produced by init; pass Zeros for a zero-initialized network or a random
// scheme such as Xavier for training from scratch.
//
// Returns a *ConfigError for an invalid shape and an *AllocationError if
// the requested storage exceeds resource limits.
func FromShape(shape Shape, init Initializer) (*ParameterStore, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if n := shape.Elements(); n > MaxStoreElements {
		return nil, &AllocationError{Elements: n, Limit: MaxStoreElements}
	}
	if init == nil {
		init = Zeros
	}

	layers := shape.Layers()
	ps := &ParameterStore{
		shape:   shape.Clone(),
		weights: make([]*mat.Dense, layers-1),
		biases:  make([]*mat.Dense, layers-1),
	}
	for l := 1; l < layers; l++ {
		rows, cols := shape[l], shape[l-1]
		w := mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				w.Set(i, j, init(cols, rows))
			}
		}
		b := mat.NewDense(rows, 1, nil)
		for i := 0; i < rows; i++ {
			b.Set(i, 0, init(cols, rows))
		}
		ps.weights[l-1] = w
		ps.biases[l-1] = b
	}
	return ps, nil
}

// FromMatrices builds a parameter store from pre-constructed weight and
// bias matrices, verifying every dimension against the declared shape
// before committing. Nothing is retained on failure, so a failed restore
// leaves no partially-initialized store.
//
// The matrices are adopted, not copied: the caller must not alias them
// afterwards.
func FromMatrices(shape Shape, weights, biases []*mat.Dense) (*ParameterStore, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	layers := shape.Layers()
	if len(weights) != layers-1 {
		return nil, &ConfigError{Detail: fmt.Sprintf("got %d weight matrices for %d layers, need %d",
			len(weights), layers, layers-1)}
	}
	if len(biases) != layers-1 {
		return nil, &ConfigError{Detail: fmt.Sprintf("got %d bias vectors for %d layers, need %d",
			len(biases), layers, layers-1)}
	}
	for l := 1; l < layers; l++ {
		if r, c := weights[l-1].Dims(); r != shape[l] || c != shape[l-1] {
			return nil, &ShapeMismatchError{
				Context:  fmt.Sprintf("weights[%d]", l),
				WantRows: shape[l], WantCols: shape[l-1],
				GotRows: r, GotCols: c,
			}
		}
		if r, c := biases[l-1].Dims(); r != shape[l] || c != 1 {
			return nil, &ShapeMismatchError{
				Context:  fmt.Sprintf("biases[%d]", l),
				WantRows: shape[l], WantCols: 1,
				GotRows: r, GotCols: c,
			}
		}
	}
	return &ParameterStore{shape: shape.Clone(), weights: weights, biases: biases}, nil
}

// Shape returns a copy of the store's shape.
func (ps *ParameterStore) Shape() Shape {
	return ps.shape.Clone()
}

// Layers returns the number of layers, including the input layer.
func (ps *ParameterStore) Layers() int {
	return ps.shape.Layers()
}

// Weight returns the weight matrix of layer l, for 1 <= l < Layers().
// Indices outside that range are programmer errors and panic.
func (ps *ParameterStore) Weight(l int) *mat.Dense {
	ps.checkLayer(l)
	return ps.weights[l-1]
}

// Bias returns the bias vector of layer l, for 1 <= l < Layers().
// Indices outside that range are programmer errors and panic.
func (ps *ParameterStore) Bias(l int) *mat.Dense {
	ps.checkLayer(l)
	return ps.biases[l-1]
}

func (ps *ParameterStore) checkLayer(l int) {
	if l < 1 || l >= ps.shape.Layers() {
		panic(fmt.Sprintf("nn: layer index %d out of range [1, %d)", l, ps.shape.Layers()))
	}
}
