package nn

import (
	"fmt"
	"math"
	"strings"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// Loss is a differentiable scalar loss function.
//
// Both losses here are built entirely from primitive tape operations, so a
// gradient computed through them can be differentiated a second time. A
// fused loss whose backward writes its gradient directly would break the
// Hessian-vector product.
type Loss[B tensor.Backend] interface {
	// Forward computes a single-element loss tensor from predictions and
	// targets.
	Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B]
}

// MSELoss computes mean squared error: mean((predictions - targets)²) over
// all elements.
type MSELoss[B tensor.Backend] struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss[B tensor.Backend]() *MSELoss[B] {
	return &MSELoss[B]{}
}

// Forward computes the MSE loss as a graph of primitive operations.
func (m *MSELoss[B]) Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("MSELoss: predictions shape %v does not match targets shape %v",
			predictions.Shape(), targets.Shape()))
	}

	diff := predictions.Sub(targets)
	squared := diff.Mul(diff)
	return squared.Sum().MulScalar(1.0 / float64(predictions.NumElements()))
}

// CrossEntropyLoss computes mean cross-entropy between logits and integer
// class targets.
//
// Built via the log-sum-exp composition with a constant per-row max shift:
//
//	loss_i = log Σ_j exp(z_ij - m_i) - (z_iy - m_i)
//
// The shift m_i is a constant, so it cancels exactly while keeping exp in a
// safe range.
type CrossEntropyLoss[B tensor.Backend] struct{}

// NewCrossEntropyLoss creates a new cross-entropy loss function.
func NewCrossEntropyLoss[B tensor.Backend]() *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{}
}

// Forward computes the cross-entropy loss.
//
// Parameters:
//   - predictions: logits with shape [batch_size, num_classes]
//   - targets: class indices with shape [batch_size] (values stored as floats)
func (c *CrossEntropyLoss[B]) Forward(predictions, targets *tensor.Tensor[B]) *tensor.Tensor[B] {
	shape := predictions.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("CrossEntropyLoss: expected 2D logits [batch, classes], got shape %v", shape))
	}
	batch, classes := shape[0], shape[1]
	if targets.NumElements() != batch {
		panic(fmt.Sprintf("CrossEntropyLoss: %d targets for batch of %d", targets.NumElements(), batch))
	}

	indices := make([]int, batch)
	for i, v := range targets.Data() {
		idx := int(v)
		if idx < 0 || idx >= classes {
			panic(fmt.Sprintf("CrossEntropyLoss: target class %d out of range [0, %d)", idx, classes))
		}
		indices[i] = idx
	}

	backend := predictions.Backend()

	// Constant per-row max; a graph leaf, so no gradient flows into it.
	logits := predictions.Raw().Data()
	maxRaw, err := tensor.NewRaw(tensor.Shape{batch, 1}, backend.Device())
	if err != nil {
		panic(err)
	}
	maxData := maxRaw.Data()
	for i := 0; i < batch; i++ {
		rowMax := math.Inf(-1)
		for j := 0; j < classes; j++ {
			if v := logits[i*classes+j]; v > rowMax {
				rowMax = v
			}
		}
		maxData[i] = rowMax
	}

	shifted := backend.Sub(predictions.Raw(), maxRaw) // [batch, classes]
	exps := backend.Exp(shifted)
	sums := backend.SumDim(exps, 1, true) // [batch, 1]
	logSums := backend.Log(sums)
	picked := backend.Gather(shifted, indices) // [batch, 1]
	perExample := backend.Sub(logSums, picked)
	total := backend.Sum(perExample)
	loss := backend.MulScalar(total, 1.0/float64(batch))

	return tensor.New(loss, backend)
}

// NewLoss returns a loss function by name: "mse" or "ce".
func NewLoss[B tensor.Backend](name string) (Loss[B], error) {
	switch strings.ToLower(name) {
	case "mse":
		return NewMSELoss[B](), nil
	case "ce":
		return NewCrossEntropyLoss[B](), nil
	default:
		return nil, fmt.Errorf("%w: loss %q not recognized (want mse or ce)", ErrConfiguration, name)
	}
}
