package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// GradientDescent implements plain full-batch gradient descent:
//
//	param = param - lr * gradient
type GradientDescent[B tensor.Backend] struct {
	params []*nn.Parameter[B]
	lr     float64
}

// NewGradientDescent creates a plain gradient descent optimizer.
func NewGradientDescent[B tensor.Backend](params []*nn.Parameter[B], lr float64) *GradientDescent[B] {
	return &GradientDescent[B]{params: params, lr: lr}
}

// Step applies param -= lr * grad to every parameter with a gradient.
func (g *GradientDescent[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range g.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}
		floats.AddScaled(param.Tensor().Raw().Data(), -g.lr, grad)
	}
}

// ZeroGrad clears all parameter gradients.
func (g *GradientDescent[B]) ZeroGrad() {
	for _, param := range g.params {
		param.ZeroGrad()
	}
}

// LearningRate returns the current learning rate.
func (g *GradientDescent[B]) LearningRate() float64 {
	return g.lr
}

// SGD implements stochastic gradient descent with momentum, dampening,
// Nesterov acceleration, and weight decay.
//
// Update rule with momentum:
//
//	buf = momentum * buf + (1 - dampening) * grad
//	grad = grad + momentum * buf   (nesterov)
//	grad = buf                     (otherwise)
//	param = param - lr * grad
type SGD[B tensor.Backend] struct {
	params    []*nn.Parameter[B]
	cfg       Config
	momentumB map[*nn.Parameter[B]][]float64
}

// NewSGD creates an SGD optimizer.
//
// Nesterov momentum requires momentum > 0 and zero dampening.
func NewSGD[B tensor.Backend](params []*nn.Parameter[B], cfg Config) (*SGD[B], error) {
	if cfg.Nesterov && (cfg.Momentum <= 0 || cfg.Dampening != 0) {
		return nil, fmt.Errorf("%w: nesterov momentum requires a momentum and zero dampening", ErrConfiguration)
	}
	return &SGD[B]{
		params:    params,
		cfg:       cfg,
		momentumB: make(map[*nn.Parameter[B]][]float64),
	}, nil
}

// Step performs a single optimization step.
func (s *SGD[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, param := range s.params {
		grad := gradientFor(param, grads)
		if grad == nil {
			continue
		}

		paramData := param.Tensor().Raw().Data()

		// Work on a copy so weight decay and momentum never mutate the
		// gradient tensor owned by the backward pass.
		d := make([]float64, len(grad))
		copy(d, grad)

		if s.cfg.WeightDecay != 0 {
			floats.AddScaled(d, s.cfg.WeightDecay, paramData)
		}

		if s.cfg.Momentum != 0 {
			buf, ok := s.momentumB[param]
			if !ok {
				buf = make([]float64, len(d))
				copy(buf, d)
				s.momentumB[param] = buf
			} else {
				floats.Scale(s.cfg.Momentum, buf)
				floats.AddScaled(buf, 1-s.cfg.Dampening, d)
			}

			if s.cfg.Nesterov {
				floats.AddScaled(d, s.cfg.Momentum, buf)
			} else {
				copy(d, buf)
			}
		}

		floats.AddScaled(paramData, -s.cfg.LearningRate, d)
	}
}

// ZeroGrad clears all parameter gradients.
func (s *SGD[B]) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// LearningRate returns the current learning rate.
func (s *SGD[B]) LearningRate() float64 {
	return s.cfg.LearningRate
}
