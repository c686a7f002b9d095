package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// DivOp represents element-wise division: output = a / b (with broadcasting).
//
// Backward:
//
//	d(a/b)/da = outputGrad / b
//	d(a/b)/db = -outputGrad * a / b² = -outputGrad * output / b
type DivOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{inputs: []*tensor.RawTensor{a, b}, output: output}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	gradA := backend.Div(outputGrad, b)

	// -outputGrad * output / b, reusing output = a/b to avoid squaring b.
	scaled := backend.Mul(outputGrad, op.output)
	gradB := backend.MulScalar(backend.Div(scaled, b), -1)

	return []*tensor.RawTensor{
		reduceTo(gradA, a.Shape(), backend),
		reduceTo(gradB, b.Shape(), backend),
	}
}

// Inputs returns the input tensors [a, b].
func (op *DivOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor a / b.
func (op *DivOp) Output() *tensor.RawTensor { return op.output }
