package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// GatherOp selects one element per row: output[i] = x[i, indices[i]].
//
// Gather and Scatter are adjoint linear maps with constant indices, so each
// one's backward is the other; recording both keeps arbitrary-order
// derivatives exact.
type GatherOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	indices []int
}

// NewGatherOp creates a new GatherOp.
func NewGatherOp(input, output *tensor.RawTensor, indices []int) *GatherOp {
	return &GatherOp{input: input, output: output, indices: indices}
}

// Backward scatters the gradient back into the selected positions.
func (op *GatherOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	cols := op.input.Shape()[1]
	return []*tensor.RawTensor{backend.Scatter(outputGrad, op.indices, cols)}
}

// Inputs returns the input tensors.
func (op *GatherOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *GatherOp) Output() *tensor.RawTensor { return op.output }

// ScatterOp places one value per row into an otherwise zero tensor:
// output[i, indices[i]] = g[i].
type ScatterOp struct {
	input   *tensor.RawTensor
	output  *tensor.RawTensor
	indices []int
}

// NewScatterOp creates a new ScatterOp.
func NewScatterOp(input, output *tensor.RawTensor, indices []int) *ScatterOp {
	return &ScatterOp{input: input, output: output, indices: indices}
}

// Backward gathers the gradient from the scattered positions.
func (op *ScatterOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Gather(outputGrad, op.indices)}
}

// Inputs returns the input tensors.
func (op *ScatterOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScatterOp) Output() *tensor.RawTensor { return op.output }
