package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go with a gonum matmul kernel
//   - Autodiff: decorator that records operations on a gradient tape
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting).
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations (2D tensors).
	MatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Expand(t *RawTensor, shape Shape) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar float64) *RawTensor

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor

	// Activation functions.
	ReLU(x *RawTensor) *RawTensor
	LeakyReLU(x *RawTensor, slope float64) *RawTensor
	Sigmoid(x *RawTensor) *RawTensor
	Tanh(x *RawTensor) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                           // total sum (shape {1})
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor // sum along dimension

	// Indexing operations. Gather selects one element per row of a 2D
	// tensor; Scatter is its adjoint, placing one value per row into an
	// otherwise zero tensor with the given number of columns.
	Gather(x *RawTensor, indices []int) *RawTensor
	Scatter(g *RawTensor, indices []int, cols int) *RawTensor

	// Argmax returns the index of the maximum value along dim for a 2D
	// tensor. Not differentiable; used for accuracy bookkeeping only.
	Argmax(x *RawTensor, dim int) []int

	// Metadata.
	Name() string
	Device() Device
}
