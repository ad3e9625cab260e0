// Copyright 2025 Fern ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn is the public surface of the fern feed-forward network
// engine.
//
// # Overview
//
// This package provides:
//   - Shape: per-layer neuron counts defining an architecture
//   - Network: construction (BuildFromShape, BuildFromFile), Predict
//   - ParameterStore: per-layer weights and biases
//   - Activation registry: sigmoid, relu, tanh, identity, plus Register
//   - Forward/Backward/Apply: the raw engine steps
//   - SaveModel/LoadModel: JSON model persistence
//
// # Basic usage
//
//	net, err := nn.BuildFromShape(nn.Shape{2, 3, 1}, nn.Config{
//	    Activation: "sigmoid",
//	    Init:       nn.Xavier(rand.NewSource(1)),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Examples as columns: a (2, k) batch.
//	out, err := net.Predict(batch) // (1, k) final activation
//
// Training lives in the train package; persistence of trained state in
// SaveModel and LoadModel here.
package nn
