package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// ReLUOp represents the rectified linear unit activation.
//
// Backward: the gradient is masked by the sign of the input. The mask is a
// constant (the second derivative of ReLU is zero almost everywhere), so
// multiplying by it stays exact under double differentiation.
type ReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReLUOp creates a new ReLUOp.
func NewReLUOp(input, output *tensor.RawTensor) *ReLUOp {
	return &ReLUOp{input: input, output: output}
}

// Backward computes the input gradient for ReLU.
func (op *ReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := signMask(op.input, 1, 0)
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns the input tensors.
func (op *ReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ReLUOp) Output() *tensor.RawTensor { return op.output }

// LeakyReLUOp represents the leaky rectified linear unit activation.
type LeakyReLUOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	slope  float64
}

// NewLeakyReLUOp creates a new LeakyReLUOp.
func NewLeakyReLUOp(input, output *tensor.RawTensor, slope float64) *LeakyReLUOp {
	return &LeakyReLUOp{input: input, output: output, slope: slope}
}

// Backward computes the input gradient for leaky ReLU.
func (op *LeakyReLUOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	mask := signMask(op.input, 1, op.slope)
	return []*tensor.RawTensor{backend.Mul(outputGrad, mask)}
}

// Inputs returns the input tensors.
func (op *LeakyReLUOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *LeakyReLUOp) Output() *tensor.RawTensor { return op.output }

// signMask builds a constant tensor holding pos where x > 0 and neg elsewhere.
func signMask(x *tensor.RawTensor, pos, neg float64) *tensor.RawTensor {
	in := x.Data()
	return constant(x.Shape(), x.Device(), func(data []float64) {
		for i, v := range in {
			if v > 0 {
				data[i] = pos
			} else {
				data[i] = neg
			}
		}
	})
}
