// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training.
//
// Available optimizers: gradient descent, SGD with momentum (plain, Polyak,
// Nesterov), Adam, and mirror descent with a choice of distance-generating
// function. The curvature analysis layer treats optimizers as opaque
// parameter updaters; it only reads the resulting parameter snapshots.
package optim

import (
	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/optim"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// ErrConfiguration reports an invalid optimizer setup.
var ErrConfiguration = optim.ErrConfiguration

// Optimizer is the base interface for all optimization algorithms.
type Optimizer = optim.Optimizer

// Config holds the hyperparameters shared across optimizer kinds.
type Config = optim.Config

// Mirror descent distance-generating functions.
const (
	DGFSquaredL2  = optim.DGFSquaredL2
	DGFNegEntropy = optim.DGFNegEntropy
)

// New creates an optimizer by kind: gd, sgd, polyak, nesterov, adam, mirror.
func New[B tensor.Backend](kind string, params []*nn.Parameter[B], cfg Config) (Optimizer, error) {
	return optim.New(kind, params, cfg)
}

// GradientDescent is plain full-batch gradient descent.
type GradientDescent[B tensor.Backend] = optim.GradientDescent[B]

// NewGradientDescent creates a gradient descent optimizer.
func NewGradientDescent[B tensor.Backend](params []*nn.Parameter[B], lr float64) *GradientDescent[B] {
	return optim.NewGradientDescent(params, lr)
}

// SGD is stochastic gradient descent with momentum, dampening, weight decay,
// and optional Nesterov acceleration.
type SGD[B tensor.Backend] = optim.SGD[B]

// NewSGD creates an SGD optimizer.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], cfg Config) (*SGD[B], error) {
	return optim.NewSGD(params, cfg)
}

// Adam is the Adam optimizer with bias correction.
type Adam[B tensor.Backend] = optim.Adam[B]

// NewAdam creates an Adam optimizer.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], cfg Config) *Adam[B] {
	return optim.NewAdam(params, cfg)
}

// MirrorDescent is mirror descent with a configurable distance-generating
// function.
type MirrorDescent[B tensor.Backend] = optim.MirrorDescent[B]

// NewMirrorDescent creates a mirror descent optimizer.
func NewMirrorDescent[B tensor.Backend](params []*nn.Parameter[B], cfg Config) (*MirrorDescent[B], error) {
	return optim.NewMirrorDescent(params, cfg)
}
