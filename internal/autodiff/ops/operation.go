// Package ops defines the differentiable operations recorded on the
// gradient tape.
//
// Each operation stores its input and output tensors during the forward pass
// and computes input gradients during the backward pass. Every backward pass
// is itself expressed in backend calls: when the backend passed to Backward
// is a recording autodiff backend, the gradient computation lands on the tape
// too, which is what makes a second differentiation pass (gradient of a
// scalar functional of the gradient) possible.
package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns one gradient per input tensor, in input order.
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
