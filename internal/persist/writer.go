package persist

import (
	"encoding/json"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/nn"
)

// document is the JSON-facing form of a parameter store. Field order is
// fixed by the struct, so the written key order is stable.
type document struct {
	Shape   []int         `json:"shape"`
	Weights [][][]float64 `json:"weights"`
	Biases  [][][]float64 `json:"biases"`
}

// Save writes the store's shape, weights, and biases to path as a JSON
// model document. The write is blocking and synchronous; callers must not
// overlap it with an in-progress update on the same store.
func Save(store *nn.ParameterStore, path string) error {
	shape := store.Shape()
	doc := document{
		Shape:   shape,
		Weights: make([][][]float64, 0, shape.Layers()-1),
		Biases:  make([][][]float64, 0, shape.Layers()-1),
	}
	for l := 1; l < shape.Layers(); l++ {
		doc.Weights = append(doc.Weights, toNested(store.Weight(l)))
		doc.Biases = append(doc.Biases, toNested(store.Bias(l)))
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &FileError{Path: path, Err: err}
	}
	return nil
}

func toNested(m *mat.Dense) [][]float64 {
	rows, cols := m.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}
	return out
}
