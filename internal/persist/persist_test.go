package persist

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/nn"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	shape := nn.Shape{2, 3, 1}
	store, err := nn.FromShape(shape, nn.Xavier(rand.NewSource(77)))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, Save(store, path))

	restored, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, shape, restored.Shape())
	for l := 1; l < shape.Layers(); l++ {
		assert.True(t, mat.EqualApprox(store.Weight(l), restored.Weight(l), 1e-12),
			"weights[%d] round trip", l)
		assert.True(t, mat.EqualApprox(store.Bias(l), restored.Bias(l), 1e-12),
			"biases[%d] round trip", l)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such-model.json"))
	require.Error(t, err)

	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		key  string
	}{
		{"no weights", `{"shape":[2,1],"biases":[[[0.0]]]}`, "weights"},
		{"no biases", `{"shape":[2,1],"weights":[[[0.1,0.2]]]}`, "biases"},
		{"no shape", `{"weights":[[[0.1,0.2]]],"biases":[[[0.0]]]}`, "shape"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeDoc(t, tc.doc))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tc.key, schemaErr.Key)
		})
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	_, err := Load(writeDoc(t, `{"shape": [2,`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, schemaErr.Key)
}

func TestLoad_MalformedKey(t *testing.T) {
	_, err := Load(writeDoc(t, `{"shape":[2,1],"weights":"nope","biases":[[[0.0]]]}`))
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "weights", schemaErr.Key)
}

func TestLoad_ShapeInconsistencies(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{
			// Declares [2,1] but carries two weight matrices.
			"weight count",
			`{"shape":[2,1],"weights":[[[0.1,0.2]],[[0.3]]],"biases":[[[0.0]]]}`,
		},
		{
			// Weight matrix is 1x1, needs 1x2.
			"weight dims",
			`{"shape":[2,1],"weights":[[[0.1]]],"biases":[[[0.0]]]}`,
		},
		{
			// Ragged rows inside a weight matrix.
			"ragged rows",
			`{"shape":[2,2],"weights":[[[0.1,0.2],[0.3]]],"biases":[[[0.0],[0.0]]]}`,
		},
		{
			// Bias is a row vector, needs a column.
			"bias dims",
			`{"shape":[2,2],"weights":[[[0.1,0.2],[0.3,0.4]]],"biases":[[[0.0,0.0]]]}`,
		},
		{
			// Bias count does not match L-1.
			"bias count",
			`{"shape":[2,1],"weights":[[[0.1,0.2]]],"biases":[]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeDoc(t, tc.doc))
			require.Error(t, err)

			var shapeErr *nn.ShapeMismatchError
			assert.ErrorAs(t, err, &shapeErr)
		})
	}
}

func TestLoad_InvalidShape(t *testing.T) {
	_, err := Load(writeDoc(t, `{"shape":[5],"weights":[],"biases":[]}`))
	require.Error(t, err)

	var cfgErr *nn.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoad_AllocationGuard(t *testing.T) {
	// Each layer passes the per-layer cap, but the declared weight matrix
	// would exceed the element limit. The guard must reject the document
	// before any matrix is materialized.
	_, err := Load(writeDoc(t, `{"shape":[1048576,262144],"weights":[],"biases":[]}`))
	require.Error(t, err)

	var allocErr *nn.AllocationError
	assert.ErrorAs(t, err, &allocErr)
}

func TestLoad_FailureCommitsNothing(t *testing.T) {
	// A document that passes the schema checks but fails dimension
	// validation must not leave any store behind; Load returns nil.
	store, err := Load(writeDoc(t, `{"shape":[2,1],"weights":[[[0.1]]],"biases":[[[0.0]]]}`))
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestSave_StableKeys(t *testing.T) {
	store, err := nn.FromShape(nn.Shape{2, 1}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, Save(store, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":[2,1],"weights":[[[0,0]]],"biases":[[[0]]]}`, string(data))
}
