package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// LogOp represents element-wise natural logarithm: output = log(x).
//
// Backward: d(log(x))/dx = 1/x, so the gradient is outputGrad / x.
// Input values must be positive.
type LogOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLogOp creates a new LogOp.
func NewLogOp(input, output *tensor.RawTensor) *LogOp {
	return &LogOp{input: input, output: output}
}

// Backward computes the input gradient for log.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Div(outputGrad, op.input)}
}

// Inputs returns the input tensors.
func (op *LogOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *LogOp) Output() *tensor.RawTensor { return op.output }
