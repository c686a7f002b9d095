package optim

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// Mirror descent distance-generating functions.
const (
	DGFSquaredL2  = "squared_l2"
	DGFNegEntropy = "neg_entropy"
)

// MirrorDescent implements mirror descent with a choice of
// distance-generating function.
//
// The step maps parameters to the dual space, takes a gradient step there,
// and maps back:
//   - squared_l2: both maps are the identity, recovering gradient descent.
//   - neg_entropy: the dual is log(θ); the primal map back is exp, keeping
//     parameters positive (multiplicative updates).
type MirrorDescent[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float64
	dgf     string
	epsilon float64
	dual    map[*nn.Parameter[B]][]float64
}

// NewMirrorDescent creates a mirror descent optimizer. The dual variables
// are initialized from the current parameter values at construction.
func NewMirrorDescent[B tensor.Backend](params []*nn.Parameter[B], cfg Config) (*MirrorDescent[B], error) {
	dgf := strings.ToLower(cfg.DGF)
	if dgf == "" {
		dgf = DGFSquaredL2
	}
	if dgf != DGFSquaredL2 && dgf != DGFNegEntropy {
		return nil, fmt.Errorf("%w: dgf %q not recognized (want %s or %s)",
			ErrConfiguration, cfg.DGF, DGFSquaredL2, DGFNegEntropy)
	}

	epsilon := cfg.Epsilon
	if epsilon == 0 {
		epsilon = 1e-8
	}

	md := &MirrorDescent[B]{
		params:  params,
		lr:      cfg.LearningRate,
		dgf:     dgf,
		epsilon: epsilon,
		dual:    make(map[*nn.Parameter[B]][]float64),
	}

	for _, param := range params {
		data := param.Tensor().Raw().Data()
		dual := make([]float64, len(data))
		switch dgf {
		case DGFSquaredL2:
			copy(dual, data)
		case DGFNegEntropy:
			// Dual is log(θ); clamp so zero or negative entries stay finite.
			for i, v := range data {
				dual[i] = math.Log(math.Max(v, epsilon))
			}
		}
		md.dual[param] = dual
	}

	return md, nil
}

// Step performs one mirror descent update.
func (m *MirrorDescent[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range m.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}

		paramData := param.Tensor().Raw().Data()
		dual := m.dual[param]

		switch m.dgf {
		case DGFSquaredL2:
			floats.AddScaled(paramData, -m.lr, grad)
			copy(dual, paramData)

		case DGFNegEntropy:
			floats.AddScaled(dual, -m.lr, grad)
			for i, d := range dual {
				// Clamp the exponent so the primal map never overflows.
				paramData[i] = math.Exp(math.Min(math.Max(d, -88), 88))
			}
		}
	}
}

// ZeroGrad clears all parameter gradients.
func (m *MirrorDescent[B]) ZeroGrad() {
	for _, param := range m.params {
		param.ZeroGrad()
	}
}

// LearningRate returns the current learning rate.
func (m *MirrorDescent[B]) LearningRate() float64 {
	return m.lr
}
