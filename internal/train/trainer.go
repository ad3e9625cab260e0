// Package train implements mini-batch stochastic gradient descent over a
// feed-forward network: epoch orchestration, example shuffling, mini-batch
// partitioning, and optional held-out evaluation.
package train

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/nn"
)

// ErrDiverged reports that training produced a NaN or infinite error,
// typically from a too-large learning rate. The engine does not clamp
// degenerate values; it stops and surfaces them.
var ErrDiverged = errors.New("training diverged: error is NaN or Inf")

// Config holds training hyperparameters.
type Config struct {
	Epochs       int     // Number of full passes over the training set
	BatchSize    int     // Mini-batch size; the final batch of an epoch may be smaller
	LearningRate float64 // SGD step size η
	Seed         uint64  // Shuffle seed (default: random)
}

func (c Config) validate() error {
	if c.Epochs < 1 {
		return &nn.ConfigError{Detail: fmt.Sprintf("epochs %d, need at least 1", c.Epochs)}
	}
	if c.BatchSize < 1 {
		return &nn.ConfigError{Detail: fmt.Sprintf("batch size %d, need at least 1", c.BatchSize)}
	}
	if c.LearningRate <= 0 || math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0) {
		return &nn.ConfigError{Detail: fmt.Sprintf("learning rate %v, need a positive finite value", c.LearningRate)}
	}
	return nil
}

// History records per-epoch error. Train always has one entry per
// completed epoch; Test is populated only when held-out data was supplied.
type History struct {
	Train []float64
	Test  []float64
}

// Run trains net on data/labels (examples as columns: data is
// (shape[0], n), labels is (shape[L-1], n)) for cfg.Epochs epochs.
//
// Each epoch shuffles the examples, partitions them into mini-batches,
// and runs forward → backward → update in strict sequence per batch.
// Dropout, if the network carries any, applies to these training passes
// only. After the epoch the training set (and the held-out set, when
// non-nil) is evaluated with a forward-only pass, dropout disabled, and
// the mean squared error is appended to the history.
//
// testData and testLabels must both be nil or both be non-nil. If an
// epoch's training error is NaN or Inf, Run stops and returns ErrDiverged
// together with the history collected so far.
func Run(net *nn.Network, data, labels *mat.Dense, cfg Config, testData, testLabels *mat.Dense) (*History, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	_, n := data.Dims()
	if _, ln := labels.Dims(); ln != n {
		return nil, &nn.ConfigError{Detail: fmt.Sprintf("%d training examples but %d labels", n, ln)}
	}
	if (testData == nil) != (testLabels == nil) {
		return nil, &nn.ConfigError{Detail: "testData and testLabels must be supplied together"}
	}
	if n == 0 {
		return nil, nn.ErrEmptyBatch
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewSource(seed))

	store := net.Store()
	history := &History{}
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		perm := rng.Perm(n)
		for start := 0; start < n; start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > n {
				end = n
			}
			idx := perm[start:end]
			batch := columns(data, idx)
			target := columns(labels, idx)

			fwd, err := nn.Forward(store, net.Activation(), batch, net.Dropout())
			if err != nil {
				return history, err
			}
			deltas, err := nn.Backward(store, net.Activation(), fwd, target)
			if err != nil {
				return history, err
			}
			if err := nn.Apply(store, deltas, fwd.Activations, cfg.LearningRate, len(idx)); err != nil {
				return history, err
			}
		}

		trainErr, err := Evaluate(net, data, labels)
		if err != nil {
			return history, err
		}
		history.Train = append(history.Train, trainErr)
		if math.IsNaN(trainErr) || math.IsInf(trainErr, 0) {
			return history, ErrDiverged
		}

		if testData != nil {
			testErr, err := Evaluate(net, testData, testLabels)
			if err != nil {
				return history, err
			}
			history.Test = append(history.Test, testErr)
		}
	}
	return history, nil
}

// Evaluate runs a forward-only pass (dropout disabled, no update) and
// returns the mean squared error of the predictions against the labels.
func Evaluate(net *nn.Network, data, labels *mat.Dense) (float64, error) {
	pred, err := net.Predict(data)
	if err != nil {
		return 0, err
	}
	pr, pc := pred.Dims()
	lr, lc := labels.Dims()
	if pr != lr || pc != lc {
		return 0, &nn.ShapeMismatchError{
			Context:  "evaluation labels",
			WantRows: pr, WantCols: pc,
			GotRows: lr, GotCols: lc,
		}
	}
	return nn.MSE(pred, labels), nil
}

// columns gathers the given column indices of m into a new matrix,
// preserving order.
func columns(m *mat.Dense, idx []int) *mat.Dense {
	rows, _ := m.Dims()
	out := mat.NewDense(rows, len(idx), nil)
	for j, c := range idx {
		for i := 0; i < rows; i++ {
			out.Set(i, j, m.At(i, c))
		}
	}
	return out
}
