package nn

import "fmt"

// Resource limits for parameter storage. Shapes are validated against
// these before any allocation, so untrusted model documents cannot
// request unbounded memory.
const (
	MaxLayers        = 1024    // Maximum number of layers, input included
	MaxLayerNeurons  = 1 << 20 // Maximum neurons in a single layer
	MaxStoreElements = 1 << 28 // Maximum total weight and bias elements
)

// Shape is the ordered sequence of per-layer neuron counts, input layer
// first. A network of Shape{2, 3, 1} has 2 inputs, one hidden layer of 3
// neurons, and 1 output.
type Shape []int

// Validate checks that the shape describes a constructible network: at
// least two layers, every neuron count positive, and no layer count or
// layer size beyond the resource limits. Returns a *ConfigError on
// violation.
func (s Shape) Validate() error {
	if len(s) < 2 {
		return &ConfigError{Detail: fmt.Sprintf("shape has %d layers, need at least 2", len(s))}
	}
	if len(s) > MaxLayers {
		return &ConfigError{Detail: fmt.Sprintf("shape has %d layers, max %d", len(s), MaxLayers)}
	}
	for l, n := range s {
		if n < 1 {
			return &ConfigError{Detail: fmt.Sprintf("layer %d has %d neurons, need at least 1", l, n)}
		}
		if n > MaxLayerNeurons {
			return &ConfigError{Detail: fmt.Sprintf("layer %d has %d neurons, max %d", l, n, MaxLayerNeurons)}
		}
	}
	return nil
}

// Layers returns the number of layers, input layer included.
func (s Shape) Layers() int {
	return len(s)
}

// In returns the input layer width.
func (s Shape) In() int {
	return s[0]
}

// Out returns the output layer width.
func (s Shape) Out() int {
	return s[len(s)-1]
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Elements returns the total number of weight and bias elements a store
// of this shape holds: for each layer l >= 1, a (s[l], s[l-1]) weight
// matrix plus an (s[l], 1) bias vector. Computed in int64 so oversized
// declared shapes are measured without overflow before being rejected.
func (s Shape) Elements() int64 {
	var n int64
	for l := 1; l < len(s); l++ {
		rows, cols := int64(s[l]), int64(s[l-1])
		n += rows*cols + rows
	}
	return n
}
