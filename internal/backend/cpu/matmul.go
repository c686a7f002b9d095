package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
//
// The multiply runs on gonum's BLAS-backed mat.Dense; the RawTensor buffers
// are wrapped without copying.
func (b *CPUBackend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("cpu: matmul expects 2D tensors, got %v and %v", xs, ys))
	}
	if xs[1] != ys[0] {
		panic(fmt.Sprintf("cpu: matmul dimension mismatch: %v @ %v", xs, ys))
	}

	m, k, n := xs[0], xs[1], ys[1]
	result := b.newRaw(tensor.Shape{m, n})

	a := mat.NewDense(m, k, x.Data())
	c := mat.NewDense(k, n, y.Data())
	out := mat.NewDense(m, n, result.Data())
	out.Mul(a, c)

	return result
}
