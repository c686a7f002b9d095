package nn

import (
	"fmt"
	"math/rand"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// FCConfig describes a fully connected network.
type FCConfig struct {
	InputSize   int
	OutputSize  int
	HiddenSizes []int
	Activation  string // relu, tanh, sigmoid, leaky_relu
	InitMethod  string // uniform, xavier, kaiming, normal, zeros, ones
}

// NewFCNetwork builds a fully connected network: alternating Linear and
// activation layers, with no activation after the output layer.
//
// Every Linear layer is re-initialized with the configured method using r,
// so a fixed seed reproduces the same starting point.
func NewFCNetwork[B tensor.Backend](cfg FCConfig, r *rand.Rand, backend B) (*Sequential[B], error) {
	if cfg.InputSize <= 0 || cfg.OutputSize <= 0 {
		return nil, fmt.Errorf("%w: fc network needs positive input/output sizes, got %d/%d",
			ErrConfiguration, cfg.InputSize, cfg.OutputSize)
	}
	if !InitializationExists(cfg.InitMethod) {
		return nil, fmt.Errorf("%w: initialization method %q not recognized", ErrConfiguration, cfg.InitMethod)
	}

	sizes := append([]int{cfg.InputSize}, cfg.HiddenSizes...)
	sizes = append(sizes, cfg.OutputSize)

	var modules []Module[B]
	for i := 0; i < len(sizes)-1; i++ {
		layer := NewLinear(sizes[i], sizes[i+1], r, backend)
		if err := Initialize(layer.Weight().Tensor().Raw(), cfg.InitMethod, sizes[i], sizes[i+1], r); err != nil {
			return nil, err
		}
		modules = append(modules, layer)

		if i < len(sizes)-2 {
			act, err := NewActivation[B](cfg.Activation)
			if err != nil {
				return nil, err
			}
			modules = append(modules, act)
		}
	}

	return NewSequential(modules...), nil
}
