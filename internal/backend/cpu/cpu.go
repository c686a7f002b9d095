// Package cpu implements the pure-Go compute backend.
//
// Element-wise operations support NumPy-style broadcasting; matrix
// multiplication is delegated to gonum (see matmul.go).
package cpu

import (
	"fmt"
	"math"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// CPUBackend implements tensor.Backend on the host CPU.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (b *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (b *CPUBackend) Device() tensor.Device {
	return tensor.CPU
}

// Add performs element-wise addition with broadcasting.
func (b *CPUBackend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.elementwise(x, y, func(a, c float64) float64 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *CPUBackend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.elementwise(x, y, func(a, c float64) float64 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *CPUBackend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.elementwise(x, y, func(a, c float64) float64 { return a * c })
}

// Div performs element-wise division with broadcasting.
func (b *CPUBackend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.elementwise(x, y, func(a, c float64) float64 { return a / c })
}

// elementwise applies a binary function over two tensors with broadcasting.
func (b *CPUBackend) elementwise(x, y *tensor.RawTensor, f func(a, c float64) float64) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(fmt.Sprintf("cpu: %v", err))
	}

	result := b.newRaw(outShape)
	out := result.Data()

	if !needsBroadcast {
		xd, yd := x.Data(), y.Data()
		for i := range out {
			out[i] = f(xd[i], yd[i])
		}
		return result
	}

	xIdx := broadcastIndexer(x.Shape(), outShape)
	yIdx := broadcastIndexer(y.Shape(), outShape)
	xd, yd := x.Data(), y.Data()
	for i := range out {
		out[i] = f(xd[xIdx(i)], yd[yIdx(i)])
	}
	return result
}

// broadcastIndexer maps a flat offset in the broadcast output shape to the
// flat offset in the (smaller) source shape.
func broadcastIndexer(srcShape, outShape tensor.Shape) func(int) int {
	srcStrides := srcShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	offset := len(outShape) - len(srcShape)

	return func(i int) int {
		srcIdx := 0
		for d := 0; d < len(outShape); d++ {
			coord := i / outStrides[d]
			i %= outStrides[d]

			srcDim := d - offset
			if srcDim < 0 {
				continue
			}
			if srcShape[srcDim] == 1 {
				continue
			}
			srcIdx += coord * srcStrides[srcDim]
		}
		return srcIdx
	}
}

// Reshape returns a tensor with the same data and a new shape.
func (b *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("cpu: cannot reshape %v to %v", t.Shape(), newShape))
	}
	result := b.newRaw(newShape)
	copy(result.Data(), t.Data())
	return result
}

// Transpose permutes the dimensions of a tensor. With no axes, all
// dimensions are reversed.
func (b *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("cpu: transpose expects %d axes, got %d", ndim, len(axes)))
	}

	inShape := t.Shape()
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = inShape[ax]
	}

	result := b.newRaw(outShape)
	inStrides := inShape.ComputeStrides()
	outStrides := outShape.ComputeStrides()
	in, out := t.Data(), result.Data()

	for i := range out {
		rem := i
		srcIdx := 0
		for d := 0; d < ndim; d++ {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		out[i] = in[srcIdx]
	}
	return result
}

// Expand broadcasts a tensor to the given shape.
func (b *CPUBackend) Expand(t *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	outShape, _, err := tensor.BroadcastShapes(t.Shape(), shape)
	if err != nil || !outShape.Equal(shape) {
		panic(fmt.Sprintf("cpu: cannot expand %v to %v", t.Shape(), shape))
	}

	result := b.newRaw(shape)
	idx := broadcastIndexer(t.Shape(), shape)
	in, out := t.Data(), result.Data()
	for i := range out {
		out[i] = in[idx(i)]
	}
	return result
}

// MulScalar multiplies every element by a scalar.
func (b *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float64) *tensor.RawTensor {
	return b.unary(x, func(v float64) float64 { return v * scalar })
}

// Exp computes element-wise exponential.
func (b *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Exp)
}

// Log computes element-wise natural logarithm.
func (b *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Log)
}

// ReLU computes element-wise max(0, x).
func (b *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// LeakyReLU computes element-wise x for x > 0, slope*x otherwise.
func (b *CPUBackend) LeakyReLU(x *tensor.RawTensor, slope float64) *tensor.RawTensor {
	return b.unary(x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return slope * v
	})
}

// Sigmoid computes element-wise 1 / (1 + exp(-x)).
func (b *CPUBackend) Sigmoid(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, func(v float64) float64 { return 1.0 / (1.0 + math.Exp(-v)) })
}

// Tanh computes element-wise hyperbolic tangent.
func (b *CPUBackend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unary(x, math.Tanh)
}

func (b *CPUBackend) unary(x *tensor.RawTensor, f func(float64) float64) *tensor.RawTensor {
	result := b.newRaw(x.Shape())
	in, out := x.Data(), result.Data()
	for i, v := range in {
		out[i] = f(v)
	}
	return result
}

// Sum reduces the whole tensor to a single-element tensor.
func (b *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.newRaw(tensor.Shape{1})
	var total float64
	for _, v := range x.Data() {
		total += v
	}
	result.Data()[0] = total
	return result
}

// SumDim sums along a dimension.
func (b *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	inShape := x.Shape()
	ndim := len(inShape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cpu: sum dimension %d out of range for shape %v", dim, inShape))
	}

	outShape := make(tensor.Shape, 0, ndim)
	for d, size := range inShape {
		if d == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, size)
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result := b.newRaw(outShape)
	in, out := x.Data(), result.Data()
	inStrides := inShape.ComputeStrides()

	for i, v := range in {
		// Output offset: input coordinates with the reduced dim removed.
		outIdx, stride := 0, 1
		for d := ndim - 1; d >= 0; d-- {
			coord := (i / inStrides[d]) % inShape[d]
			if d == dim {
				continue
			}
			outIdx += coord * stride
			stride *= inShape[d]
		}
		out[outIdx] += v
	}
	return result
}

// Gather selects x[i, indices[i]] for each row of a 2D tensor, producing a
// column tensor of shape [rows, 1].
func (b *CPUBackend) Gather(x *tensor.RawTensor, indices []int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cpu: gather expects a 2D tensor, got shape %v", shape))
	}
	rows, cols := shape[0], shape[1]
	if len(indices) != rows {
		panic(fmt.Sprintf("cpu: gather expects %d indices, got %d", rows, len(indices)))
	}

	result := b.newRaw(tensor.Shape{rows, 1})
	in, out := x.Data(), result.Data()
	for i, idx := range indices {
		if idx < 0 || idx >= cols {
			panic(fmt.Sprintf("cpu: gather index %d out of range for %d columns", idx, cols))
		}
		out[i] = in[i*cols+idx]
	}
	return result
}

// Scatter places g[i] at position indices[i] of row i in an otherwise zero
// [rows, cols] tensor. It is the adjoint of Gather.
func (b *CPUBackend) Scatter(g *tensor.RawTensor, indices []int, cols int) *tensor.RawTensor {
	shape := g.Shape()
	if len(shape) != 2 || shape[1] != 1 {
		panic(fmt.Sprintf("cpu: scatter expects a column tensor [rows, 1], got shape %v", shape))
	}
	rows := shape[0]
	if len(indices) != rows {
		panic(fmt.Sprintf("cpu: scatter expects %d indices, got %d", rows, len(indices)))
	}

	result := b.newRaw(tensor.Shape{rows, cols})
	in, out := g.Data(), result.Data()
	for i, idx := range indices {
		out[i*cols+idx] = in[i]
	}
	return result
}

// Argmax returns per-row (dim=1) or per-column (dim=0) indices of the
// maximum value of a 2D tensor.
func (b *CPUBackend) Argmax(x *tensor.RawTensor, dim int) []int {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("cpu: argmax expects a 2D tensor, got shape %v", shape))
	}
	rows, cols := shape[0], shape[1]
	data := x.Data()

	if dim == 1 {
		out := make([]int, rows)
		for i := 0; i < rows; i++ {
			best, bestIdx := math.Inf(-1), 0
			for j := 0; j < cols; j++ {
				if v := data[i*cols+j]; v > best {
					best, bestIdx = v, j
				}
			}
			out[i] = bestIdx
		}
		return out
	}

	out := make([]int, cols)
	for j := 0; j < cols; j++ {
		best, bestIdx := math.Inf(-1), 0
		for i := 0; i < rows; i++ {
			if v := data[i*cols+j]; v > best {
				best, bestIdx = v, i
			}
		}
		out[j] = bestIdx
	}
	return out
}

func (b *CPUBackend) newRaw(shape tensor.Shape) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, b.Device())
	if err != nil {
		panic(err)
	}
	return raw
}
