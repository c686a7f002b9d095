// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package hessian provides second-order curvature analysis of the training
// loss: Hessian-vector products via double backpropagation, a Lanczos
// eigensolver over the implicit Hessian, eigenvector attribution to named
// parameters and layers, and parameter-space trajectory tracking.
//
// Example:
//
//	index, _ := hessian.BuildIndex(model)
//	op, _ := hessian.NewHVPOperator(model, lossFn, dataset, backend)
//	solver := &hessian.SpectrumSolver{Seed: 42}
//	values, vectors, _ := solver.Solve(func(v []float64) ([]float64, error) {
//	    return op.Compute(v, hessian.Options{})
//	}, index.NumParameters(), 1)
//	top, _ := hessian.TopContributors(vectors[0], index, 10)
package hessian

import (
	"github.com/sharp-ml/sharp/internal/autodiff"
	"github.com/sharp-ml/sharp/internal/data"
	"github.com/sharp-ml/sharp/internal/hessian"
	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrConfiguration     = hessian.ErrConfiguration
	ErrInvalidArgument   = hessian.ErrInvalidArgument
	ErrDimensionMismatch = hessian.ErrDimensionMismatch
	ErrNotConverged      = hessian.ErrNotConverged
)

// Kind classifies a parameter tensor as weight or bias.
type Kind = hessian.Kind

// Parameter kinds.
const (
	KindWeight = hessian.KindWeight
	KindBias   = hessian.KindBias
)

// ParameterIndex maps flat parameter-vector offsets to named parameter
// tensors and back.
type ParameterIndex = hessian.ParameterIndex

// Entry describes the parameter element behind one flat offset.
type Entry = hessian.Entry

// BuildIndex constructs a ParameterIndex from a model's named parameters.
func BuildIndex[B tensor.Backend](model nn.Module[B]) (*ParameterIndex, error) {
	return hessian.BuildIndex(model)
}

// FlattenParameters concatenates a model's parameters into a flat vector.
func FlattenParameters[B tensor.Backend](model nn.Module[B]) []float64 {
	return hessian.FlattenParameters(model)
}

// Options tunes a single HVP computation.
type Options = hessian.Options

// HVPOperator computes Hessian-vector products of the dataset-mean loss.
type HVPOperator[B autodiff.BackwardCapable] = hessian.HVPOperator[B]

// NewHVPOperator creates an operator bound to a model, loss, and dataset.
func NewHVPOperator[B autodiff.BackwardCapable](
	model nn.Module[B],
	loss nn.Loss[B],
	dataset data.Dataset,
	backend B,
) (*HVPOperator[B], error) {
	return hessian.NewHVPOperator(model, loss, dataset, backend)
}

// SpectrumSolver extracts the top-k eigenpairs of a symmetric operator via
// Lanczos iteration with full reorthogonalization.
type SpectrumSolver = hessian.SpectrumSolver

// Contributor is one parameter element's share of an eigenvector.
type Contributor = hessian.Contributor

// TopContributors returns the topK eigenvector components of largest
// absolute value.
func TopContributors(eigenvector []float64, index *ParameterIndex, topK int) ([]Contributor, error) {
	return hessian.TopContributors(eigenvector, index, topK)
}

// LayerContributions sums absolute eigenvector components per layer.
func LayerContributions(eigenvector []float64, index *ParameterIndex) (map[string]float64, error) {
	return hessian.LayerContributions(eigenvector, index)
}

// TrajectoryTracker accumulates parameter snapshots and reports cumulative
// path length through parameter space.
type TrajectoryTracker = hessian.TrajectoryTracker

// NewTrajectoryTracker creates an empty tracker.
func NewTrajectoryTracker() *TrajectoryTracker {
	return hessian.NewTrajectoryTracker()
}
