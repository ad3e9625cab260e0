package nn

import (
	"gonum.org/v1/gonum/mat"
)

// ForwardResult holds the per-layer intermediates of one forward pass.
// All three slices have length Layers() and are index-aligned with the
// shape: Activations[0] is the input batch itself, Outputs[0] and
// Masks[0] are nil, and Masks[l] is nil for every layer that had no
// dropout applied.
//
// The intermediates are scoped to a single mini-batch pass; the backward
// and update steps consume them and they are discarded afterwards.
type ForwardResult struct {
	Outputs     []*mat.Dense // Pre-activations: W·z + b per layer
	Activations []*mat.Dense // act(Outputs), with dropout masks applied during training
	Masks       []*mat.Dense // 0/1 dropout masks, nil where none was sampled
}

// Batch returns the input batch the pass was run on.
func (r *ForwardResult) Batch() *mat.Dense {
	return r.Activations[0]
}

// Final returns the activation of the output layer.
func (r *ForwardResult) Final() *mat.Dense {
	return r.Activations[len(r.Activations)-1]
}

// BatchSize returns the number of examples (columns) in the pass.
func (r *ForwardResult) BatchSize() int {
	_, k := r.Activations[0].Dims()
	return k
}

// Forward runs a vectorized forward pass over a batch. The batch carries
// examples as columns and must have shape[0] rows; the column count k is
// preserved through every layer.
//
// A non-nil dropout marks this as a training pass: for each configured
// hidden layer a fresh mask is sampled and multiplied elementwise into
// that layer's activations, and the mask is retained for the backward
// pass. Pass nil dropout for inference and evaluation.
//
// The parameter store is read-only during the call.
func Forward(store *ParameterStore, act Activation, batch *mat.Dense, dropout *Dropout) (*ForwardResult, error) {
	shape := store.shape
	rows, k := batch.Dims()
	if k < 1 {
		return nil, ErrEmptyBatch
	}
	if rows != shape.In() {
		return nil, &ShapeMismatchError{
			Context:  "input batch",
			WantRows: shape.In(), WantCols: k,
			GotRows: rows, GotCols: k,
		}
	}

	layers := shape.Layers()
	res := &ForwardResult{
		Outputs:     make([]*mat.Dense, layers),
		Activations: make([]*mat.Dense, layers),
		Masks:       make([]*mat.Dense, layers),
	}
	res.Activations[0] = batch

	for l := 1; l < layers; l++ {
		// out = W·z + b, with the bias column broadcast over all k examples.
		var out mat.Dense
		out.Mul(store.Weight(l), res.Activations[l-1])
		b := store.Bias(l)
		out.Apply(func(i, _ int, v float64) float64 { return v + b.At(i, 0) }, &out)

		z := act.Apply(&out)
		if dropout != nil {
			if p, ok := dropout.KeepProb(l); ok {
				mask := dropout.Sample(shape[l], k, p)
				z.MulElem(z, mask)
				res.Masks[l] = mask
			}
		}

		res.Outputs[l] = &out
		res.Activations[l] = z
	}
	return res, nil
}
