package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// ScaleOp represents multiplication by a scalar: output = s * x.
type ScaleOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scalar float64
}

// NewScaleOp creates a new ScaleOp.
func NewScaleOp(input, output *tensor.RawTensor, scalar float64) *ScaleOp {
	return &ScaleOp{input: input, output: output, scalar: scalar}
}

// Backward scales the gradient by the same scalar.
func (op *ScaleOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.MulScalar(outputGrad, op.scalar)}
}

// Inputs returns the input tensors.
func (op *ScaleOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScaleOp) Output() *tensor.RawTensor { return op.output }
