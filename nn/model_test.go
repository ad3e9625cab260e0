// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/nn"
)

// TestModelRoundTrip exercises the public construction and persistence
// surface end to end: build, save, rebuild from file, compare predictions.
func TestModelRoundTrip(t *testing.T) {
	net, err := nn.BuildFromShape(nn.Shape{3, 5, 2}, nn.Config{
		Activation: "tanh",
		Init:       nn.Xavier(rand.NewSource(19)),
	})
	require.NoError(t, err)

	batch := mat.NewDense(3, 4, []float64{
		0.1, -0.2, 0.3, 0.0,
		0.5, 0.4, -0.1, 1.0,
		-0.7, 0.2, 0.9, -1.0,
	})
	want, err := net.Predict(batch)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, nn.SaveModel(net, path))

	restored, err := nn.BuildFromFile(path, nn.Config{Activation: "tanh"})
	require.NoError(t, err)

	got, err := restored.Predict(batch)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(want, got, 1e-12))
}

func TestBuildFromFile_Missing(t *testing.T) {
	_, err := nn.BuildFromFile(filepath.Join(t.TempDir(), "missing.json"), nn.Config{})
	require.Error(t, err)

	var fileErr *nn.FileError
	assert.ErrorAs(t, err, &fileErr)
}
