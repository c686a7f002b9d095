package autodiff

import (
	"github.com/sharp-ml/sharp/internal/autodiff/ops"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic
// differentiation.
//
// A backward pass can itself be recorded (createGraph), in which case the
// gradient tensors become tape nodes and a scalar functional of the gradient
// can be differentiated a second time. That second pass is how Hessian-vector
// products are computed without materializing the Hessian.
type GradientTape struct {
	operations []ops.Operation // Recorded operations, in execution order
	recording  bool
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 64),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape if recording is enabled.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// The recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward computes gradients of output with respect to every tensor on the
// tape, walking the recorded operations in reverse and accumulating via the
// chain rule.
//
// If createGraph is true, recording stays enabled during the walk: every
// backward computation is recorded too, so the returned gradients are tape
// nodes and can be differentiated again. If false, recording is paused for
// the duration of the walk (the common first-order case).
//
// Operations recorded during the walk itself are appended past the snapshot
// taken on entry and are not revisited by this call.
func (t *GradientTape) Backward(output, outputGrad *tensor.RawTensor, backend tensor.Backend, createGraph bool) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	n := len(t.operations)
	if n == 0 {
		return grads
	}

	if !createGraph {
		wasRecording := t.recording
		t.recording = false
		defer func() { t.recording = wasRecording }()
	}

	grads[output] = outputGrad

	for i := n - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			// No gradient flows through this operation.
			continue
		}

		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}

	return grads
}
