// Package optim implements the optimization algorithms used in training.
//
// Optimizers consume a gradient map produced by the autodiff backward pass
// and update parameters in place. The curvature analysis only ever reads the
// resulting parameter snapshots; optimizer correctness beyond producing an
// update is out of its scope.
package optim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// ErrConfiguration reports an invalid optimizer setup (unknown kind or
// distance-generating function, inconsistent momentum options). Detected at
// construction.
var ErrConfiguration = errors.New("invalid optimizer configuration")

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place, given the
	// RawTensor -> gradient map from a backward pass. Parameters without a
	// gradient are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// LearningRate returns the current learning rate.
	LearningRate() float64
}

// Config holds the hyperparameters shared across optimizer kinds. Fields not
// relevant to a kind are ignored by it.
type Config struct {
	LearningRate float64
	Momentum     float64
	Dampening    float64
	WeightDecay  float64
	Nesterov     bool

	// Adam.
	Beta1   float64
	Beta2   float64
	Epsilon float64

	// Mirror descent distance-generating function: squared_l2 or neg_entropy.
	DGF string
}

// New creates an optimizer by kind: gd, sgd, polyak, nesterov, adam, mirror.
//
// polyak and nesterov are the momentum presets of SGD (β defaulting to 0.9).
func New[B tensor.Backend](kind string, params []*nn.Parameter[B], cfg Config) (Optimizer, error) {
	if cfg.LearningRate == 0 {
		cfg.LearningRate = 0.01
	}

	switch strings.ToLower(kind) {
	case "gd":
		return NewGradientDescent(params, cfg.LearningRate), nil
	case "sgd":
		return NewSGD(params, cfg)
	case "polyak":
		c := cfg
		if c.Momentum == 0 {
			c.Momentum = 0.9
		}
		c.Nesterov = false
		c.Dampening = 0
		return NewSGD(params, c)
	case "nesterov":
		c := cfg
		if c.Momentum == 0 {
			c.Momentum = 0.9
		}
		c.Nesterov = true
		c.Dampening = 0
		return NewSGD(params, c)
	case "adam":
		return NewAdam(params, cfg), nil
	case "mirror":
		return NewMirrorDescent(params, cfg)
	default:
		return nil, fmt.Errorf("%w: optimizer kind %q not recognized", ErrConfiguration, kind)
	}
}

// gradientFor retrieves the gradient for a parameter, or nil when the
// parameter did not participate in the forward pass.
func gradientFor[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) []float64 {
	if param == nil {
		return nil
	}
	g, ok := grads[param.Tensor().Raw()]
	if !ok {
		return nil
	}
	return g.Data()
}
