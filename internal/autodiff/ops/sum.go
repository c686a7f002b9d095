package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// SumOp represents a full reduction: output = sum(x), shape {1}.
//
// Backward: every element contributes with weight 1, so the scalar gradient
// is broadcast back to the input shape.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new SumOp.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Backward broadcasts the scalar gradient to the input shape.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	g := backend.Reshape(outputGrad, onesShape(len(op.input.Shape())))
	return []*tensor.RawTensor{backend.Expand(g, op.input.Shape())}
}

// Inputs returns the input tensors.
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }
