package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Activation is an elementwise nonlinearity together with its derivative.
// Both functions are applied elementwise over matrices of arbitrary shape
// and must be defined for every float64 input.
type Activation struct {
	Name       string
	Fn         func(x float64) float64
	Derivative func(x float64) float64
}

// Apply returns act(m) as a new matrix of the same dimensions.
func (a Activation) Apply(m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return a.Fn(v) }, m)
	return &out
}

// ApplyDerivative returns act'(m) as a new matrix of the same dimensions.
func (a Activation) ApplyDerivative(m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return a.Derivative(v) }, m)
	return &out
}

// Registry maps activation names to implementations. Engines resolve
// activations by name, so new nonlinearities can be registered without
// touching forward or backward code.
type Registry struct {
	byName map[string]Activation
}

// NewRegistry creates a registry pre-populated with the built-in
// activations: sigmoid, relu, tanh, identity.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]Activation)}
	for _, a := range builtins {
		r.Register(a)
	}
	return r
}

// Register adds or replaces an activation under its name.
func (r *Registry) Register(a Activation) {
	r.byName[a.Name] = a
}

// Resolve returns the activation registered under name, or an
// *UnknownActivationError.
func (r *Registry) Resolve(name string) (Activation, error) {
	a, ok := r.byName[name]
	if !ok {
		return Activation{}, &UnknownActivationError{Name: name}
	}
	return a, nil
}

// defaultRegistry backs the package-level Resolve and Register.
var defaultRegistry = NewRegistry()

// Resolve looks up an activation in the default registry.
func Resolve(name string) (Activation, error) {
	return defaultRegistry.Resolve(name)
}

// Register adds an activation to the default registry.
func Register(a Activation) {
	defaultRegistry.Register(a)
}

// Sigmoid computes 1/(1+exp(-x)) in a numerically stable form. The
// negative branch avoids computing exp of a large positive magnitude,
// which would overflow to +Inf and poison the quotient.
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}

// SigmoidPrime is the derivative of Sigmoid: σ(x)·(1−σ(x)).
func SigmoidPrime(x float64) float64 {
	s := Sigmoid(x)
	return s * (1.0 - s)
}

var builtins = []Activation{
	{
		Name:       "sigmoid",
		Fn:         Sigmoid,
		Derivative: SigmoidPrime,
	},
	{
		Name: "relu",
		Fn: func(x float64) float64 {
			return math.Max(0, x)
		},
		// Indicator function: 1 where x > 0, else 0.
		Derivative: func(x float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		},
	},
	{
		Name: "tanh",
		Fn:   math.Tanh,
		Derivative: func(x float64) float64 {
			t := math.Tanh(x)
			return 1.0 - t*t
		},
	},
	{
		Name:       "identity",
		Fn:         func(x float64) float64 { return x },
		Derivative: func(x float64) float64 { return 1 },
	},
}
