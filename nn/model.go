// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/persist"
)

// Persistence error types.
type (
	// FileError reports a missing or unreadable model path.
	FileError = persist.FileError
	// SchemaError reports a document that is not valid JSON or is
	// missing a required key.
	SchemaError = persist.SchemaError
)

// SaveModel writes a network's trained state to path as a JSON model
// document with the contractual keys "shape", "weights", and "biases".
func SaveModel(net *Network, path string) error {
	return persist.Save(net.Store(), path)
}

// LoadModel restores a parameter store from a JSON model document.
// Validation completes fully before anything is committed; a failed load
// constructs nothing.
func LoadModel(path string) (*ParameterStore, error) {
	return persist.Load(path)
}

// BuildFromFile restores a network from a persisted model document.
// cfg.Init is ignored (the parameters come from the document); the other
// fields configure the restored network as in BuildFromShape.
func BuildFromFile(path string, cfg Config) (*Network, error) {
	store, err := persist.Load(path)
	if err != nil {
		return nil, err
	}
	return nn.FromStore(store, cfg)
}
