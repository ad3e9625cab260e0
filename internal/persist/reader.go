package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/nn"
)

// requiredKeys are the contractual top-level keys of a model document.
var requiredKeys = []string{"shape", "weights", "biases"}

// Load reads a model document from path, validates it completely, and
// commits it into a fresh parameter store.
//
// Failure modes, in validation order:
//   - *FileError if the path is missing or unreadable,
//   - *SchemaError if the bytes are not a JSON object or a required key
//     is absent or malformed,
//   - *nn.AllocationError if the declared matrices exceed resource limits,
//   - *nn.ShapeMismatchError if matrix counts or dimensions are
//     inconsistent with the declared shape.
//
// Validation runs to completion before anything is committed; on error no
// partially-initialized store exists.
func Load(path string) (*nn.ParameterStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &SchemaError{Err: err}
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, &SchemaError{Key: key}
		}
	}

	var doc document
	if err := json.Unmarshal(raw["shape"], &doc.Shape); err != nil {
		return nil, &SchemaError{Key: "shape", Err: err}
	}
	if err := json.Unmarshal(raw["weights"], &doc.Weights); err != nil {
		return nil, &SchemaError{Key: "weights", Err: err}
	}
	if err := json.Unmarshal(raw["biases"], &doc.Biases); err != nil {
		return nil, &SchemaError{Key: "biases", Err: err}
	}

	shape := nn.Shape(doc.Shape)
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if n := shape.Elements(); n > nn.MaxStoreElements {
		return nil, &nn.AllocationError{Elements: n, Limit: nn.MaxStoreElements}
	}

	layers := shape.Layers()
	if len(doc.Weights) != layers-1 {
		return nil, &nn.ShapeMismatchError{
			Context:  "weights count",
			WantRows: layers - 1, WantCols: 1,
			GotRows: len(doc.Weights), GotCols: 1,
		}
	}
	if len(doc.Biases) != layers-1 {
		return nil, &nn.ShapeMismatchError{
			Context:  "biases count",
			WantRows: layers - 1, WantCols: 1,
			GotRows: len(doc.Biases), GotCols: 1,
		}
	}

	weights := make([]*mat.Dense, layers-1)
	biases := make([]*mat.Dense, layers-1)
	for l := 1; l < layers; l++ {
		w, err := toDense(doc.Weights[l-1], shape[l], shape[l-1], fmt.Sprintf("weights[%d]", l))
		if err != nil {
			return nil, err
		}
		b, err := toDense(doc.Biases[l-1], shape[l], 1, fmt.Sprintf("biases[%d]", l))
		if err != nil {
			return nil, err
		}
		weights[l-1] = w
		biases[l-1] = b
	}

	// All validation passed: commit atomically.
	return nn.FromMatrices(shape, weights, biases)
}

// toDense converts a nested array into a wantRows x wantCols matrix,
// rejecting wrong row counts and ragged rows.
func toDense(rows [][]float64, wantRows, wantCols int, context string) (*mat.Dense, error) {
	if len(rows) != wantRows {
		return nil, &nn.ShapeMismatchError{
			Context:  context,
			WantRows: wantRows, WantCols: wantCols,
			GotRows: len(rows), GotCols: wantCols,
		}
	}
	m := mat.NewDense(wantRows, wantCols, nil)
	for i, row := range rows {
		if len(row) != wantCols {
			return nil, &nn.ShapeMismatchError{
				Context:  fmt.Sprintf("%s row %d", context, i),
				WantRows: wantRows, WantCols: wantCols,
				GotRows: wantRows, GotCols: len(row),
			}
		}
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
	return m, nil
}
