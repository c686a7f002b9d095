// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU Device = tensor.CPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3} represents a 2×3 matrix.
type Shape = tensor.Shape

// BroadcastShapes implements NumPy-style broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// Backend is the interface for device-specific compute implementations.
type Backend = tensor.Backend

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// NewRaw creates a new zero-filled RawTensor with the given shape.
func NewRaw(shape Shape, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, device)
}

// FromData creates a RawTensor backed by a copy of the given values.
func FromData(values []float64, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromData(values, shape, device)
}

// Tensor is the high-level tensor type, parameterized over the backend.
type Tensor[B Backend] = tensor.Tensor[B]

// New wraps a RawTensor with a backend.
func New[B Backend](raw *RawTensor, backend B) *Tensor[B] {
	return tensor.New(raw, backend)
}

// Zeros creates a zero-filled tensor.
func Zeros[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Zeros(shape, backend)
}

// Ones creates a one-filled tensor.
func Ones[B Backend](shape Shape, backend B) *Tensor[B] {
	return tensor.Ones(shape, backend)
}

// Full creates a tensor filled with the given value.
func Full[B Backend](shape Shape, value float64, backend B) *Tensor[B] {
	return tensor.Full(shape, value, backend)
}

// FromSlice creates a tensor from a flat slice of values.
func FromSlice[B Backend](values []float64, shape Shape, backend B) (*Tensor[B], error) {
	return tensor.FromSlice(values, shape, backend)
}

// Randn creates a tensor of standard normal samples drawn from r.
func Randn[B Backend](shape Shape, r *rand.Rand, backend B) *Tensor[B] {
	return tensor.Randn(shape, r, backend)
}
