// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package experiment orchestrates edge-of-stability training runs.
package experiment

import (
	"io"

	"github.com/sharp-ml/sharp/internal/data"
	"github.com/sharp-ml/sharp/internal/experiment"
)

// Config is a full experiment description, loadable from YAML.
type Config = experiment.Config

// NetworkConfig describes the fully connected model under study.
type NetworkConfig = experiment.NetworkConfig

// OptimizerConfig selects the training algorithm and its hyperparameters.
type OptimizerConfig = experiment.OptimizerConfig

// AnalysisConfig controls the per-step curvature measurement.
type AnalysisConfig = experiment.AnalysisConfig

// StepRecord captures one training step's measurements.
type StepRecord = experiment.StepRecord

// Report is the result of a full experiment run.
type Report = experiment.Report

// Load reads and validates an experiment configuration from a YAML file.
func Load(path string) (*Config, error) {
	return experiment.Load(path)
}

// Run trains a model per cfg while measuring the loss Hessian's top
// eigenpairs, logging progress to out.
func Run(cfg Config, dataset data.Dataset, out io.Writer) (*Report, error) {
	return experiment.Run(cfg, dataset, out)
}
