package optim

import (
	"math"

	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// Adam implements adaptive moment estimation.
//
//	m = β1*m + (1-β1)*grad
//	v = β2*v + (1-β2)*grad²
//	param -= lr * m̂ / (sqrt(v̂) + ε)
//
// with bias-corrected m̂ and v̂.
type Adam[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	cfg    Config
	step   int
	m      map[*nn.Parameter[B]][]float64
	v      map[*nn.Parameter[B]][]float64
}

// NewAdam creates an Adam optimizer. Unset betas and epsilon fall back to
// the usual 0.9 / 0.999 / 1e-8.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], cfg Config) *Adam[B] {
	if cfg.Beta1 == 0 {
		cfg.Beta1 = 0.9
	}
	if cfg.Beta2 == 0 {
		cfg.Beta2 = 0.999
	}
	if cfg.Epsilon == 0 {
		cfg.Epsilon = 1e-8
	}
	return &Adam[B]{
		params: params,
		cfg:    cfg,
		m:      make(map[*nn.Parameter[B]][]float64),
		v:      make(map[*nn.Parameter[B]][]float64),
	}
}

// Step performs a single optimization step.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.step++
	correction1 := 1 - math.Pow(a.cfg.Beta1, float64(a.step))
	correction2 := 1 - math.Pow(a.cfg.Beta2, float64(a.step))

	for _, param := range a.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}

		paramData := param.Tensor().Raw().Data()

		m, ok := a.m[param]
		if !ok {
			m = make([]float64, len(grad))
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = make([]float64, len(grad))
			a.v[param] = v
		}

		for i, g := range grad {
			if a.cfg.WeightDecay != 0 {
				g += a.cfg.WeightDecay * paramData[i]
			}
			m[i] = a.cfg.Beta1*m[i] + (1-a.cfg.Beta1)*g
			v[i] = a.cfg.Beta2*v[i] + (1-a.cfg.Beta2)*g*g

			mHat := m[i] / correction1
			vHat := v[i] / correction2
			paramData[i] -= a.cfg.LearningRate * mHat / (math.Sqrt(vHat) + a.cfg.Epsilon)
		}
	}
}

// ZeroGrad clears all parameter gradients.
func (a *Adam[B]) ZeroGrad() {
	for _, param := range a.params {
		param.ZeroGrad()
	}
}

// LearningRate returns the current learning rate.
func (a *Adam[B]) LearningRate() float64 {
	return a.cfg.LearningRate
}
