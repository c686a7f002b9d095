package experiment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharp-ml/sharp/internal/nn"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
name: toy
seed: 7
iterations: 100
loss: mse
network:
  input_size: 4
  output_size: 2
  hidden_sizes: [8, 8]
  activation: tanh
  init: xavier
optimizer:
  kind: gd
  learning_rate: 0.05
analysis:
  eigenvalue_count: 3
  chunk_size: 16
  every: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "toy", cfg.Name)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 100, cfg.Iterations)
	assert.Equal(t, []int{8, 8}, cfg.Network.HiddenSizes)
	assert.Equal(t, 0.05, cfg.Optimizer.LearningRate)
	assert.Equal(t, 3, cfg.Analysis.EigenvalueCount)
	assert.Equal(t, 16, cfg.Analysis.ChunkSize)
	assert.Equal(t, 10, cfg.Analysis.Every)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := writeConfig(t, "iterations: [not a number\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Iterations: 10,
			Network:    NetworkConfig{InputSize: 2, OutputSize: 2, HiddenSizes: []int{4}},
			Optimizer:  OptimizerConfig{Kind: "gd", LearningRate: 0.1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
		{"negative input size", func(c *Config) { c.Network.InputSize = -1 }},
		{"zero output size", func(c *Config) { c.Network.OutputSize = 0 }},
		{"zero hidden size", func(c *Config) { c.Network.HiddenSizes = []int{4, 0} }},
		{"unknown activation", func(c *Config) { c.Network.Activation = "gelu" }},
		{"unknown init", func(c *Config) { c.Network.Init = "orthogonal" }},
		{"unknown loss", func(c *Config) { c.Loss = "huber" }},
		{"negative learning rate", func(c *Config) { c.Optimizer.LearningRate = -0.1 }},
		{"negative eigenvalue count", func(c *Config) { c.Analysis.EigenvalueCount = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())
}

func TestValidateWrapsConfigurationError(t *testing.T) {
	cfg := Config{Iterations: 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, nn.ErrConfiguration)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{
		Iterations: 10,
		Network:    NetworkConfig{InputSize: 2, OutputSize: 2},
	}
	cfg.applyDefaults()

	assert.Equal(t, "mse", cfg.Loss)
	assert.Equal(t, "tanh", cfg.Network.Activation)
	assert.Equal(t, "xavier", cfg.Network.Init)
	assert.Equal(t, "gd", cfg.Optimizer.Kind)
	assert.Equal(t, 1, cfg.Analysis.EigenvalueCount)
	assert.Equal(t, 1, cfg.Analysis.Every)
	assert.Equal(t, 10, cfg.Analysis.TopContributors)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Loss:      "ce",
		Network:   NetworkConfig{Activation: "relu", Init: "kaiming"},
		Optimizer: OptimizerConfig{Kind: "sgd"},
		Analysis:  AnalysisConfig{EigenvalueCount: 5, Every: 3, TopContributors: 2},
	}
	cfg.applyDefaults()

	assert.Equal(t, "ce", cfg.Loss)
	assert.Equal(t, "relu", cfg.Network.Activation)
	assert.Equal(t, "he", cfg.Network.Init)
	assert.Equal(t, "sgd", cfg.Optimizer.Kind)
	assert.Equal(t, 5, cfg.Analysis.EigenvalueCount)
	assert.Equal(t, 3, cfg.Analysis.Every)
	assert.Equal(t, 2, cfg.Analysis.TopContributors)
}
