// Package experiment orchestrates edge-of-stability training runs: it trains
// a model step by step while measuring the loss Hessian's top eigenvalues,
// tracking the parameter-space trajectory, and attributing the dominant
// curvature direction back to named parameters and layers.
package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sharp-ml/sharp/internal/backend/cpu"
	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/optim"
)

// NetworkConfig describes the fully connected model under study.
type NetworkConfig struct {
	InputSize   int    `yaml:"input_size"`
	OutputSize  int    `yaml:"output_size"`
	HiddenSizes []int  `yaml:"hidden_sizes"`
	Activation  string `yaml:"activation"`
	Init        string `yaml:"init"`
}

// OptimizerConfig selects the training algorithm and its hyperparameters.
type OptimizerConfig struct {
	Kind         string  `yaml:"kind"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	Dampening    float64 `yaml:"dampening"`
	WeightDecay  float64 `yaml:"weight_decay"`
	Nesterov     bool    `yaml:"nesterov"`
	Beta1        float64 `yaml:"beta1"`
	Beta2        float64 `yaml:"beta2"`
	Epsilon      float64 `yaml:"epsilon"`
	DGF          string  `yaml:"dgf"`
}

// AnalysisConfig controls the per-step curvature measurement.
type AnalysisConfig struct {
	// EigenvalueCount is k, the number of top eigenpairs to extract.
	EigenvalueCount int `yaml:"eigenvalue_count"`

	// ChunkSize bounds the number of examples per HVP pass (0 = whole
	// dataset at once).
	ChunkSize int `yaml:"chunk_size"`

	// Every measures the spectrum on every Every-th step (default 1).
	Every int `yaml:"every"`

	// TopContributors is the number of attribution entries in the final
	// report (default 10).
	TopContributors int `yaml:"top_contributors"`
}

// Config is a full experiment description, loadable from YAML.
type Config struct {
	Name       string          `yaml:"name"`
	Seed       int64           `yaml:"seed"`
	Iterations int             `yaml:"iterations"`
	Loss       string          `yaml:"loss"`
	Network    NetworkConfig   `yaml:"network"`
	Optimizer  OptimizerConfig `yaml:"optimizer"`
	Analysis   AnalysisConfig  `yaml:"analysis"`
}

// Load reads and validates an experiment configuration from a YAML file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration eagerly, so a malformed experiment fails
// before any training step runs.
func (c *Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", nn.ErrConfiguration, c.Iterations)
	}
	if c.Network.InputSize <= 0 || c.Network.OutputSize <= 0 {
		return fmt.Errorf("%w: network needs positive input/output sizes, got %d/%d",
			nn.ErrConfiguration, c.Network.InputSize, c.Network.OutputSize)
	}
	for i, h := range c.Network.HiddenSizes {
		if h <= 0 {
			return fmt.Errorf("%w: hidden size %d at index %d must be positive", nn.ErrConfiguration, h, i)
		}
	}
	if c.Network.Init != "" && !nn.InitializationExists(c.Network.Init) {
		return fmt.Errorf("%w: initialization method %q not recognized", nn.ErrConfiguration, c.Network.Init)
	}
	if c.Network.Activation != "" {
		if _, err := nn.NewActivation[*cpu.CPUBackend](c.Network.Activation); err != nil {
			return err
		}
	}
	if c.Loss != "" {
		if _, err := nn.NewLoss[*cpu.CPUBackend](c.Loss); err != nil {
			return err
		}
	}
	if c.Optimizer.LearningRate < 0 {
		return fmt.Errorf("%w: learning rate must be non-negative, got %g",
			optim.ErrConfiguration, c.Optimizer.LearningRate)
	}
	if c.Analysis.EigenvalueCount < 0 {
		return fmt.Errorf("%w: eigenvalue count must be non-negative, got %d",
			nn.ErrConfiguration, c.Analysis.EigenvalueCount)
	}
	return nil
}

// applyDefaults fills unset optional fields.
func (c *Config) applyDefaults() {
	if c.Loss == "" {
		c.Loss = "mse"
	}
	if c.Network.Activation == "" {
		c.Network.Activation = "tanh"
	}
	if c.Network.Init == "" {
		c.Network.Init = "xavier"
	}
	if c.Optimizer.Kind == "" {
		c.Optimizer.Kind = "gd"
	}
	if c.Analysis.EigenvalueCount == 0 {
		c.Analysis.EigenvalueCount = 1
	}
	if c.Analysis.Every <= 0 {
		c.Analysis.Every = 1
	}
	if c.Analysis.TopContributors <= 0 {
		c.Analysis.TopContributors = 10
	}
}
