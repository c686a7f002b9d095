package hessian

import (
	"fmt"
	"math"

	"github.com/sharp-ml/sharp/internal/autodiff"
	"github.com/sharp-ml/sharp/internal/data"
	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// Options tunes a single HVP computation.
type Options struct {
	// ChunkSize bounds the number of examples differentiated at once.
	// Zero (or any value >= the dataset size) processes the whole dataset
	// in one pass. The chunked result equals the unchunked one up to
	// floating-point summation order.
	ChunkSize int

	// Preconditioner is an optional positive diagonal P of length N. When
	// set, the probe is rescaled by 1/sqrt(P) before the product and the
	// result rescaled by 1/sqrt(P) after, approximating the HVP of the
	// preconditioned system.
	Preconditioner []float64
}

// HVPOperator computes Hessian-vector products of the dataset-mean training
// loss with respect to the model parameters, without materializing the
// Hessian.
//
// For probe v the product is d/dθ [∇L(θ) · v]: the gradient is computed with
// the differentiation graph retained, the scalar ∇L·v is formed on that
// graph, and a second backward pass over the combined graph yields the
// product. Both passes run on the operator's recording backend.
//
// The model parameters are read-only during a call. Mutating them (an
// optimizer step) while a Compute is in flight invalidates the result.
type HVPOperator[B autodiff.BackwardCapable] struct {
	model   nn.Module[B]
	loss    nn.Loss[B]
	dataset data.Dataset
	backend B
	dim     int
}

// NewHVPOperator creates an operator bound to a model, loss, and dataset.
//
// Returns ErrConfiguration if the model has no parameters or the dataset is
// empty.
func NewHVPOperator[B autodiff.BackwardCapable](
	model nn.Module[B],
	loss nn.Loss[B],
	dataset data.Dataset,
	backend B,
) (*HVPOperator[B], error) {
	dim := nn.NumParameters(model)
	if dim == 0 {
		return nil, fmt.Errorf("%w: model has no trainable parameters", ErrConfiguration)
	}
	if dataset.Len() == 0 {
		return nil, fmt.Errorf("%w: dataset is empty", ErrConfiguration)
	}

	return &HVPOperator[B]{
		model:   model,
		loss:    loss,
		dataset: dataset,
		backend: backend,
		dim:     dim,
	}, nil
}

// Dim returns N, the flat parameter count the operator acts on.
func (o *HVPOperator[B]) Dim() int {
	return o.dim
}

// Compute returns the Hessian-vector product for the given probe.
//
// Parameters:
//   - probe: length-N direction vector, owned by the caller
//   - opts: chunking and preconditioning controls (zero value = defaults)
//
// Returns:
//   - length-N product vector in the same basis as the probe
//   - ErrDimensionMismatch if len(probe) != N
//   - ErrInvalidArgument if the preconditioner is malformed
func (o *HVPOperator[B]) Compute(probe []float64, opts Options) ([]float64, error) {
	if len(probe) != o.dim {
		return nil, fmt.Errorf("%w: probe length %d, model has %d parameters",
			ErrDimensionMismatch, len(probe), o.dim)
	}

	scale, err := o.preconditionerScale(opts.Preconditioner)
	if err != nil {
		return nil, err
	}

	direction := probe
	if scale != nil {
		direction = make([]float64, o.dim)
		for i, v := range probe {
			direction[i] = v * scale[i]
		}
	}

	total := o.dataset.Len()
	chunk := opts.ChunkSize
	if chunk <= 0 || chunk > total {
		chunk = total
	}

	result := make([]float64, o.dim)
	for start := 0; start < total; start += chunk {
		size := chunk
		if start+size > total {
			size = total - start
		}
		if err := o.accumulateChunk(result, direction, start, size, total); err != nil {
			return nil, err
		}
	}

	if scale != nil {
		for i := range result {
			result[i] *= scale[i]
		}
	}

	return result, nil
}

// accumulateChunk adds the chunk's HVP contribution into result. The chunk
// loss is weighted by size/total before differentiation, so summing chunk
// contributions reproduces the dataset-mean loss HVP.
func (o *HVPOperator[B]) accumulateChunk(result, direction []float64, start, size, total int) error {
	inputsRaw, targetsRaw, err := o.dataset.Batch(start, size)
	if err != nil {
		return fmt.Errorf("hvp: batch [%d, %d): %w", start, start+size, err)
	}

	tape := o.backend.GetTape()
	tape.Clear()
	tape.StartRecording()
	defer func() {
		tape.StopRecording()
		tape.Clear()
	}()

	inputs := tensor.New(inputsRaw, o.backend)
	targets := tensor.New(targetsRaw, o.backend)

	predictions := o.model.Forward(inputs)
	loss := o.loss.Forward(predictions, targets).MulScalar(float64(size) / float64(total))

	// Phase one: gradient with the graph retained, so the gradients below
	// are themselves differentiable tape nodes.
	grads := autodiff.BackwardWithGraph(loss, o.backend)

	// Form the scalar g·v on the retained graph. The probe segments are
	// constant leaves; only the gradient side carries derivatives.
	var dot *tensor.RawTensor
	offset := 0
	for _, np := range o.model.NamedParameters() {
		param := np.Param.Tensor().Raw()
		n := param.NumElements()
		grad, ok := grads[param]
		offset += n
		if !ok {
			continue
		}

		seg, err := tensor.FromData(direction[offset-n:offset], param.Shape(), o.backend.Device())
		if err != nil {
			return fmt.Errorf("hvp: probe segment for %q: %w", np.Name, err)
		}

		term := o.backend.Sum(o.backend.Mul(grad, seg))
		if dot == nil {
			dot = term
		} else {
			dot = o.backend.Add(dot, term)
		}
	}
	if dot == nil {
		// No gradient reached any parameter; the chunk contributes zero.
		return nil
	}

	// Phase two: differentiate g·v over the combined graph.
	seed, err := tensor.NewRaw(tensor.Shape{1}, o.backend.Device())
	if err != nil {
		return fmt.Errorf("hvp: seed gradient: %w", err)
	}
	seed.Data()[0] = 1.0
	second := tape.Backward(dot, seed, o.backend, false)

	offset = 0
	for _, np := range o.model.NamedParameters() {
		param := np.Param.Tensor().Raw()
		n := param.NumElements()
		if hv, ok := second[param]; ok {
			data := hv.Data()
			for i := 0; i < n; i++ {
				result[offset+i] += data[i]
			}
		}
		offset += n
	}

	return nil
}

// preconditionerScale validates P and returns the elementwise 1/sqrt(P), or
// nil when no preconditioner is supplied.
func (o *HVPOperator[B]) preconditionerScale(p []float64) ([]float64, error) {
	if p == nil {
		return nil, nil
	}
	if len(p) != o.dim {
		return nil, fmt.Errorf("%w: preconditioner length %d, model has %d parameters",
			ErrDimensionMismatch, len(p), o.dim)
	}

	scale := make([]float64, o.dim)
	for i, v := range p {
		if v <= 0 {
			return nil, fmt.Errorf("%w: preconditioner entry %d is %g, must be positive",
				ErrInvalidArgument, i, v)
		}
		scale[i] = 1.0 / math.Sqrt(v)
	}
	return scale, nil
}
