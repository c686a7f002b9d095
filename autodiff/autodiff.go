// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation.
//
// It wraps any backend with a gradient tape that records operations during
// the forward pass. Backward passes are themselves expressed in backend
// calls, so a recorded backward pass can be differentiated again; that
// double-backpropagation capability is what the hessian package builds its
// Hessian-vector products on.
//
// Example:
//
//	base := cpu.New()
//	backend := autodiff.New(base)
//
//	backend.Tape().StartRecording()
//	y := x.Mul(x).Sum()
//	grads := autodiff.Backward(y, backend)
package autodiff

import (
	"github.com/sharp-ml/sharp/internal/autodiff"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// Backend is the autodiff-enabled backend decorator.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates an autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// BackwardCapable is the interface of backends that support a backward pass.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes first-order gradients of t with respect to every tensor
// on the tape.
func Backward[B autodiff.BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}

// BackwardWithGraph computes gradients while recording the backward pass
// itself, enabling second-order differentiation of scalars built from the
// returned gradients.
func BackwardWithGraph[B autodiff.BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.BackwardWithGraph(t, backend)
}
