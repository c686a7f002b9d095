// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the Sharp
// curvature analysis framework.
//
// The package defines the core types for backend-parameterized tensor
// computation:
//   - Tensor[B]: high-level tensor dispatching to a backend
//   - RawTensor: the float64 buffer with shape and strides
//   - Backend: interface for compute implementations
//   - Shape, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{2, 3}, backend)
//	y := tensor.Ones(tensor.Shape{2, 3}, backend)
//	z := x.Add(y)
package tensor
