package nn

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

func randBatch(rows, cols int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, rng.NormFloat64())
		}
	}
	return m
}

func TestForward_FinalDims(t *testing.T) {
	cases := []struct {
		shape Shape
		k     int
	}{
		{Shape{2, 1}, 1},
		{Shape{2, 3, 1}, 1},
		{Shape{2, 3, 1}, 7},
		{Shape{5, 8, 8, 2}, 16},
		{Shape{1, 1}, 3},
	}
	act, err := Resolve("sigmoid")
	require.NoError(t, err)

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v_k%d", tc.shape, tc.k), func(t *testing.T) {
			ps, err := FromShape(tc.shape, Xavier(rand.NewSource(3)))
			require.NoError(t, err)

			fwd, err := Forward(ps, act, randBatch(tc.shape.In(), tc.k, 9), nil)
			require.NoError(t, err)

			// Column count is preserved through every layer.
			for l := 1; l < tc.shape.Layers(); l++ {
				r, c := fwd.Activations[l].Dims()
				assert.Equal(t, tc.shape[l], r, "layer %d rows", l)
				assert.Equal(t, tc.k, c, "layer %d cols", l)
				or, oc := fwd.Outputs[l].Dims()
				assert.Equal(t, r, or)
				assert.Equal(t, c, oc)
			}
			fr, fc := fwd.Final().Dims()
			assert.Equal(t, tc.shape.Out(), fr)
			assert.Equal(t, tc.k, fc)
		})
	}
}

func TestForward_BiasBroadcast(t *testing.T) {
	// identity activation, zero weights: every column of the output must
	// equal the bias vector.
	ps, err := FromShape(Shape{2, 3}, nil)
	require.NoError(t, err)
	ps.Bias(1).Set(0, 0, 0.1)
	ps.Bias(1).Set(1, 0, -0.2)
	ps.Bias(1).Set(2, 0, 0.3)

	act, err := Resolve("identity")
	require.NoError(t, err)

	fwd, err := Forward(ps, act, randBatch(2, 5, 11), nil)
	require.NoError(t, err)

	for j := 0; j < 5; j++ {
		assert.InDelta(t, 0.1, fwd.Final().At(0, j), 1e-15)
		assert.InDelta(t, -0.2, fwd.Final().At(1, j), 1e-15)
		assert.InDelta(t, 0.3, fwd.Final().At(2, j), 1e-15)
	}
}

func TestForward_Deterministic(t *testing.T) {
	ps, err := FromShape(Shape{3, 4, 2}, Xavier(rand.NewSource(7)))
	require.NoError(t, err)
	act, err := Resolve("sigmoid")
	require.NoError(t, err)

	batch := randBatch(3, 6, 5)
	a, err := Forward(ps, act, batch, nil)
	require.NoError(t, err)
	b, err := Forward(ps, act, batch, nil)
	require.NoError(t, err)

	// Bit-identical without dropout.
	assert.True(t, mat.Equal(a.Final(), b.Final()))
}

func TestForward_InputRowMismatch(t *testing.T) {
	ps, err := FromShape(Shape{3, 2}, nil)
	require.NoError(t, err)
	act, err := Resolve("sigmoid")
	require.NoError(t, err)

	_, err = Forward(ps, act, randBatch(4, 2, 1), nil)
	require.Error(t, err)

	var shapeErr *ShapeMismatchError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 3, shapeErr.WantRows)
	assert.Equal(t, 4, shapeErr.GotRows)
}

func TestForward_StoreReadOnly(t *testing.T) {
	ps, err := FromShape(Shape{2, 2}, Xavier(rand.NewSource(13)))
	require.NoError(t, err)
	act, err := Resolve("sigmoid")
	require.NoError(t, err)

	var before mat.Dense
	before.CloneFrom(ps.Weight(1))

	_, err = Forward(ps, act, randBatch(2, 3, 2), nil)
	require.NoError(t, err)
	assert.True(t, mat.Equal(&before, ps.Weight(1)))
}

func TestForward_DropoutMasksTrainingOnly(t *testing.T) {
	ps, err := FromShape(Shape{4, 10, 2}, nil)
	require.NoError(t, err)
	act, err := Resolve("sigmoid")
	require.NoError(t, err)

	dropout, err := NewDropout(map[int]float64{1: 0.5}, rand.NewSource(21))
	require.NoError(t, err)

	batch := randBatch(4, 8, 17)

	// Training pass: a mask is sampled for layer 1 and applied.
	fwd, err := Forward(ps, act, batch, dropout)
	require.NoError(t, err)
	require.NotNil(t, fwd.Masks[1])
	r, c := fwd.Masks[1].Dims()
	assert.Equal(t, 10, r)
	assert.Equal(t, 8, c)
	assert.Nil(t, fwd.Masks[2], "output layer has no dropout")

	// With zero weights all pre-dropout activations are sigmoid(0)=0.5,
	// so a zero activation proves the mask was applied there.
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if fwd.Masks[1].At(i, j) == 0 {
				assert.Zero(t, fwd.Activations[1].At(i, j))
			} else {
				assert.Equal(t, 0.5, fwd.Activations[1].At(i, j))
			}
		}
	}

	// Inference pass: no masks, no scaling.
	inf, err := Forward(ps, act, batch, nil)
	require.NoError(t, err)
	assert.Nil(t, inf.Masks[1])
	for i := 0; i < 10; i++ {
		for j := 0; j < 8; j++ {
			assert.Equal(t, 0.5, inf.Activations[1].At(i, j))
		}
	}
}

func TestForward_DropoutStatistics(t *testing.T) {
	const (
		keep   = 0.7
		passes = 200
		k      = 20
		hidden = 50
	)
	ps, err := FromShape(Shape{3, hidden, 1}, nil)
	require.NoError(t, err)
	act, err := Resolve("sigmoid")
	require.NoError(t, err)
	dropout, err := NewDropout(map[int]float64{1: keep}, rand.NewSource(99))
	require.NoError(t, err)

	batch := randBatch(3, k, 31)
	var zeros, total int
	for p := 0; p < passes; p++ {
		fwd, err := Forward(ps, act, batch, dropout)
		require.NoError(t, err)
		for i := 0; i < hidden; i++ {
			for j := 0; j < k; j++ {
				total++
				if fwd.Activations[1].At(i, j) == 0 {
					zeros++
				}
			}
		}
	}

	// Empirical zero fraction converges to 1-p.
	assert.InDelta(t, 1-keep, float64(zeros)/float64(total), 0.01)
}

func TestNewDropout_InvalidKeep(t *testing.T) {
	var cfgErr *ConfigError

	_, err := NewDropout(map[int]float64{1: 0}, nil)
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewDropout(map[int]float64{1: 1.2}, nil)
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewDropout(map[int]float64{1: 1.0}, nil)
	assert.NoError(t, err, "keep probability of exactly 1 is allowed")
}
