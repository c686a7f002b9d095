package autodiff

import (
	"fmt"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// BackwardCapable is an interface for backends that support a backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes first-order gradients of t with respect to every tensor
// on the tape, seeding the output gradient with ones.
func Backward[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return backwardImpl(t, backend, false)
}

// BackwardWithGraph computes gradients of t while recording the backward
// pass itself. The returned gradients are tape nodes: a scalar built from
// them (such as the dot product with a probe vector) can be passed to
// Backward again, yielding second-order derivatives.
func BackwardWithGraph[B BackwardCapable](t *tensor.Tensor[B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return backwardImpl(t, backend, true)
}

func backwardImpl[B BackwardCapable](t *tensor.Tensor[B], backend B, createGraph bool) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	data := outputGrad.Data()
	for i := range data {
		data[i] = 1.0
	}

	return tape.Backward(t.Raw(), outputGrad, backend, createGraph)
}
