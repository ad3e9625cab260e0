package nn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Dropout samples 0/1 masks for hidden-layer activations during training
// passes. A fresh mask is drawn per mini-batch for each configured layer;
// the same mask is reused by the backward pass so that dropped units
// contribute no gradient.
//
// Retained activations are not scaled up, and inference applies no
// compensating factor either: evaluation simply runs with dropout
// disabled. This deliberately is plain (non-inverted) dropout.
type Dropout struct {
	keep map[int]float64
	rng  rand.Source
}

// NewDropout creates a dropout sampler with per-layer keep-probabilities.
// Keys are layer indices and values are keep-probabilities in (0, 1].
// Which layers are legal depends on the network shape and is validated at
// construction of the network, not here.
func NewDropout(keep map[int]float64, src rand.Source) (*Dropout, error) {
	for l, p := range keep {
		if p <= 0 || p > 1 {
			return nil, &ConfigError{Detail: fmt.Sprintf("dropout keep-probability for layer %d is %v, need (0, 1]", l, p)}
		}
	}
	cloned := make(map[int]float64, len(keep))
	for l, p := range keep {
		cloned[l] = p
	}
	if src == nil {
		src = rand.NewSource(rand.Uint64())
	}
	return &Dropout{keep: cloned, rng: src}, nil
}

// KeepProb returns the keep-probability configured for layer l, and
// whether dropout applies to that layer at all.
func (d *Dropout) KeepProb(l int) (float64, bool) {
	p, ok := d.keep[l]
	return p, ok
}

// Layers returns the configured layer indices, in no particular order.
func (d *Dropout) Layers() []int {
	out := make([]int, 0, len(d.keep))
	for l := range d.keep {
		out = append(out, l)
	}
	return out
}

// Sample draws a fresh rows x cols mask of independent Bernoulli(p)
// variables, where each element is 1 with probability p (keep) and 0
// otherwise.
func (d *Dropout) Sample(rows, cols int, p float64) *mat.Dense {
	bern := distuv.Bernoulli{P: p, Src: d.rng}
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, bern.Rand())
		}
	}
	return m
}
