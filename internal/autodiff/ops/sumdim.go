package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// SumDimOp represents a reduction along one dimension: output = sum(x, dim).
type SumDimOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	dim     int
	keepDim bool
}

// NewSumDimOp creates a new SumDimOp.
func NewSumDimOp(input, output *tensor.RawTensor, dim int, keepDim bool) *SumDimOp {
	return &SumDimOp{input: input, output: output, dim: dim, keepDim: keepDim}
}

// Backward broadcasts the gradient back along the reduced dimension.
func (op *SumDimOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	g := outputGrad
	if !op.keepDim {
		// Reinsert the reduced dimension as size 1 before expanding.
		inShape := op.input.Shape()
		dim := op.dim
		if dim < 0 {
			dim += len(inShape)
		}
		keepShape := inShape.Clone()
		keepShape[dim] = 1
		g = backend.Reshape(g, keepShape)
	}
	return []*tensor.RawTensor{backend.Expand(g, op.input.Shape())}
}

// Inputs returns the input tensors.
func (op *SumDimOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SumDimOp) Output() *tensor.RawTensor { return op.output }
