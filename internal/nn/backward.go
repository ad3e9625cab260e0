package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Backward computes the per-layer error terms (deltas) for one forward
// pass against a target batch, under the mean squared error cost
// C = ½·Σ(y−a)².
//
// The output-layer delta is (a − y) ⊙ act'(out), and each earlier layer's
// delta is (Wᵀ·delta_next) ⊙ act'(out), with the forward pass's dropout
// mask re-applied wherever one was sampled so dropped units contribute no
// gradient.
//
// The returned slice has length Layers() and is index-aligned with the
// forward intermediates; index 0 (the input layer) is nil. Backward is a
// pure function of its inputs: neither the store nor the forward result
// is mutated.
func Backward(store *ParameterStore, act Activation, fwd *ForwardResult, target *mat.Dense) ([]*mat.Dense, error) {
	shape := store.shape
	layers := shape.Layers()
	k := fwd.BatchSize()

	if r, c := target.Dims(); r != shape.Out() || c != k {
		return nil, &ShapeMismatchError{
			Context:  "target batch",
			WantRows: shape.Out(), WantCols: k,
			GotRows: r, GotCols: c,
		}
	}

	deltas := make([]*mat.Dense, layers)

	// Output layer: delta = (a − y) ⊙ act'(out).
	last := layers - 1
	var diff mat.Dense
	diff.Sub(fwd.Activations[last], target)
	diff.MulElem(&diff, act.ApplyDerivative(fwd.Outputs[last]))
	deltas[last] = &diff

	// Hidden layers, back to front: delta = (Wᵀ·delta_next) ⊙ act'(out).
	for l := layers - 2; l >= 1; l-- {
		var d mat.Dense
		d.Mul(store.Weight(l+1).T(), deltas[l+1])
		d.MulElem(&d, act.ApplyDerivative(fwd.Outputs[l]))
		if mask := fwd.Masks[l]; mask != nil {
			d.MulElem(&d, mask)
		}
		deltas[l] = &d
	}
	return deltas, nil
}

// MSE returns the mean squared error cost of a prediction batch against a
// target batch, averaged over the k examples: (½·Σ(y−a)²) / k.
func MSE(pred, target *mat.Dense) float64 {
	var diff mat.Dense
	diff.Sub(pred, target)
	_, k := diff.Dims()
	norm := mat.Norm(&diff, 2)
	return 0.5 * norm * norm / float64(k)
}
