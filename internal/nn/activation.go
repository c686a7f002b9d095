package nn

import (
	"fmt"
	"strings"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// ReLU applies the rectified linear unit element-wise.
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] { return &ReLU[B]{} }

// Forward applies max(0, x).
func (a *ReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.ReLU()
}

// Parameters returns no parameters.
func (a *ReLU[B]) Parameters() []*Parameter[B] { return nil }

// NamedParameters returns no parameters.
func (a *ReLU[B]) NamedParameters() []NamedParameter[B] { return nil }

// Tanh applies the hyperbolic tangent element-wise.
type Tanh[B tensor.Backend] struct{}

// NewTanh creates a Tanh activation module.
func NewTanh[B tensor.Backend]() *Tanh[B] { return &Tanh[B]{} }

// Forward applies tanh(x).
func (a *Tanh[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.Tanh()
}

// Parameters returns no parameters.
func (a *Tanh[B]) Parameters() []*Parameter[B] { return nil }

// NamedParameters returns no parameters.
func (a *Tanh[B]) NamedParameters() []NamedParameter[B] { return nil }

// Sigmoid applies the logistic function element-wise.
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] { return &Sigmoid[B]{} }

// Forward applies 1 / (1 + exp(-x)).
func (a *Sigmoid[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return input.Sigmoid()
}

// Parameters returns no parameters.
func (a *Sigmoid[B]) Parameters() []*Parameter[B] { return nil }

// NamedParameters returns no parameters.
func (a *Sigmoid[B]) NamedParameters() []NamedParameter[B] { return nil }

// LeakyReLU applies x for x > 0 and slope*x otherwise.
type LeakyReLU[B tensor.Backend] struct {
	slope float64
}

// NewLeakyReLU creates a LeakyReLU activation module.
func NewLeakyReLU[B tensor.Backend](slope float64) *LeakyReLU[B] {
	return &LeakyReLU[B]{slope: slope}
}

// Forward applies the leaky rectifier.
func (a *LeakyReLU[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	return tensor.New(input.Backend().LeakyReLU(input.Raw(), a.slope), input.Backend())
}

// Parameters returns no parameters.
func (a *LeakyReLU[B]) Parameters() []*Parameter[B] { return nil }

// NamedParameters returns no parameters.
func (a *LeakyReLU[B]) NamedParameters() []NamedParameter[B] { return nil }

// NewActivation returns an activation module by name.
//
// Recognized names: relu, tanh, sigmoid, leaky_relu.
func NewActivation[B tensor.Backend](name string) (Module[B], error) {
	switch strings.ToLower(name) {
	case "relu":
		return NewReLU[B](), nil
	case "tanh":
		return NewTanh[B](), nil
	case "sigmoid":
		return NewSigmoid[B](), nil
	case "leaky_relu":
		return NewLeakyReLU[B](0.01), nil
	default:
		return nil, fmt.Errorf("%w: activation function %q not recognized", ErrConfiguration, name)
	}
}
