package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Apply performs one stochastic gradient descent step on the store, using
// the deltas and activations of a completed forward+backward pass:
//
//	bias[l]   -= (lr/batchSize) · columnSum(delta[l])
//	weight[l] -= (lr/batchSize) · delta[l]·activations[l-1]ᵀ
//
// The column-wise reduction of delta[l] must produce exactly the bias
// vector's (shape[l], 1) dimensions before the subtraction. That check is
// a hard invariant, not an optional validation: permissive broadcasting
// between a row-sum and a column vector yields a wrong result of the same
// apparent shape, so a violation returns a *ShapeMismatchError and leaves
// the layer untouched.
//
// This is the only code path that mutates a ParameterStore. Weight and
// bias dimensions are unchanged by a successful update.
func Apply(store *ParameterStore, deltas, activations []*mat.Dense, learningRate float64, batchSize int) error {
	if batchSize < 1 {
		return &ConfigError{Detail: fmt.Sprintf("batch size %d, need at least 1", batchSize)}
	}
	layers := store.shape.Layers()
	if len(deltas) != layers || len(activations) != layers {
		return &ConfigError{Detail: fmt.Sprintf("got %d deltas and %d activations for %d layers",
			len(deltas), len(activations), layers)}
	}
	step := learningRate / float64(batchSize)

	for l := 1; l < layers; l++ {
		delta := deltas[l]
		_, k := delta.Dims()

		// Reduce the k example columns of delta to a single column.
		ones := mat.NewDense(k, 1, nil)
		for i := 0; i < k; i++ {
			ones.Set(i, 0, 1)
		}
		var gradB mat.Dense
		gradB.Mul(delta, ones)

		bias := store.Bias(l)
		br, bc := bias.Dims()
		if gr, gc := gradB.Dims(); gr != br || gc != bc {
			return &ShapeMismatchError{
				Context:  fmt.Sprintf("bias update layer %d", l),
				WantRows: br, WantCols: bc,
				GotRows: gr, GotCols: gc,
			}
		}
		gradB.Scale(step, &gradB)
		bias.Sub(bias, &gradB)

		var gradW mat.Dense
		gradW.Mul(delta, activations[l-1].T())
		weight := store.Weight(l)
		wr, wc := weight.Dims()
		if gr, gc := gradW.Dims(); gr != wr || gc != wc {
			return &ShapeMismatchError{
				Context:  fmt.Sprintf("weight update layer %d", l),
				WantRows: wr, WantCols: wc,
				GotRows: gr, GotCols: gc,
			}
		}
		gradW.Scale(step, &gradW)
		weight.Sub(weight, &gradW)
	}
	return nil
}
