// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train is the public surface of the mini-batch SGD training
// loop.
//
// Example:
//
//	history, err := train.Run(net, data, labels, train.Config{
//	    Epochs:       500,
//	    BatchSize:    4,
//	    LearningRate: 3.0,
//	}, nil, nil)
package train

import (
	"gonum.org/v1/gonum/mat"

	nncore "github.com/fern-ml/fern/internal/nn"
	"github.com/fern-ml/fern/internal/train"
)

// Config holds training hyperparameters.
type Config = train.Config

// History records per-epoch training (and optional held-out) error.
type History = train.History

// ErrDiverged reports a NaN or infinite training error.
var ErrDiverged = train.ErrDiverged

// Run trains net on data/labels (examples as columns) and returns the
// per-epoch error history. Pass non-nil testData and testLabels to record
// a held-out error per epoch.
func Run(net *nncore.Network, data, labels *mat.Dense, cfg Config, testData, testLabels *mat.Dense) (*History, error) {
	return train.Run(net, data, labels, cfg, testData, testLabels)
}

// Evaluate runs a forward-only pass (dropout disabled, no update) and
// returns the mean squared error against the labels.
func Evaluate(net *nncore.Network, data, labels *mat.Dense) (float64, error) {
	return train.Evaluate(net, data, labels)
}
