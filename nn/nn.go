// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network layers and building blocks.
//
// This package contains:
//   - Layers: Linear, Sequential
//   - Activations: ReLU, Tanh, Sigmoid, LeakyReLU
//   - Loss functions: MSELoss, CrossEntropyLoss
//   - Factories: NewFCNetwork, NewActivation, NewLoss
//   - Initialization: xavier, kaiming, uniform, normal, zeros, ones
//
// Models are Modules with a stable named-parameter enumeration; the hessian
// package's flat-vector analyses rely on that order staying fixed.
package nn

import (
	"math/rand"

	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// ErrConfiguration reports an invalid model setup (unknown activation, init
// method, or loss name).
var ErrConfiguration = nn.ErrConfiguration

// Module is the common interface for all neural network components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NamedParameter pairs a parameter with its dotted path inside the model.
type NamedParameter[B tensor.Backend] = nn.NamedParameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NumParameters returns the total scalar parameter count of a module.
func NumParameters[B tensor.Backend](m Module[B]) int {
	return nn.NumParameters(m)
}

// Layers

// Linear represents a fully connected layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear layer with Xavier-initialized weights drawn
// from r.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, r *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, r, backend)
}

// Sequential chains modules, passing each output to the next module.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a sequential container from the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// FCConfig describes a fully connected network.
type FCConfig = nn.FCConfig

// NewFCNetwork builds a fully connected network from a configuration.
func NewFCNetwork[B tensor.Backend](cfg FCConfig, r *rand.Rand, backend B) (*Sequential[B], error) {
	return nn.NewFCNetwork(cfg, r, backend)
}

// Activations

// ReLU applies the rectified linear unit element-wise.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] { return nn.NewReLU[B]() }

// Tanh applies the hyperbolic tangent element-wise.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] { return nn.NewTanh[B]() }

// Sigmoid applies the sigmoid function element-wise.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return nn.NewSigmoid[B]() }

// LeakyReLU applies the leaky rectified linear unit element-wise.
type LeakyReLU[B tensor.Backend] = nn.LeakyReLU[B]

// NewLeakyReLU creates a LeakyReLU activation module with the given
// negative-side slope.
func NewLeakyReLU[B tensor.Backend](slope float64) *LeakyReLU[B] {
	return nn.NewLeakyReLU[B](slope)
}

// NewActivation returns an activation module by name: relu, tanh, sigmoid,
// or leaky_relu.
func NewActivation[B tensor.Backend](name string) (Module[B], error) {
	return nn.NewActivation[B](name)
}

// Losses

// Loss is the interface for loss functions.
type Loss[B tensor.Backend] = nn.Loss[B]

// MSELoss is the mean squared error loss.
type MSELoss[B tensor.Backend] = nn.MSELoss[B]

// NewMSELoss creates a mean squared error loss.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] { return nn.NewMSELoss[B]() }

// CrossEntropyLoss is the cross-entropy loss over logits.
type CrossEntropyLoss[B tensor.Backend] = nn.CrossEntropyLoss[B]

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return nn.NewCrossEntropyLoss[B]()
}

// NewLoss returns a loss function by name: "mse" or "ce".
func NewLoss[B tensor.Backend](name string) (Loss[B], error) {
	return nn.NewLoss[B](name)
}

// Initialization

// Initialize fills a tensor in place using a named initialization method.
func Initialize(t *tensor.RawTensor, method string, fanIn, fanOut int, r *rand.Rand) error {
	return nn.Initialize(t, method, fanIn, fanOut, r)
}

// InitializationExists reports whether the named initialization method is
// registered.
func InitializationExists(method string) bool {
	return nn.InitializationExists(method)
}
