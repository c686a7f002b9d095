// Package main provides the Sharp curvature analysis CLI.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/sharp-ml/sharp/data"
	"github.com/sharp-ml/sharp/experiment"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" {
		usage()
		return
	}
	if os.Args[1] == "version" {
		fmt.Printf("Sharp %s\n", version)
		return
	}

	cfg, err := experiment.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "sharp: %v\n", err)
		os.Exit(1)
	}

	dataset, err := syntheticDataset(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sharp: %v\n", err)
		os.Exit(1)
	}

	report, err := experiment.Run(*cfg, dataset, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sharp: %v\n", err)
		os.Exit(1)
	}

	if len(report.FinalEigenvalues) > 0 {
		fmt.Printf("run %s: final top eigenvalue %.6f after %d steps\n",
			report.RunID, report.FinalEigenvalues[0], len(report.Steps))
	}
}

// syntheticDataset builds a small fixed classification problem matching the
// configured network dimensions: gaussian inputs with labels assigned by
// input sign, the same for every run with the same seed.
func syntheticDataset(cfg *experiment.Config) (data.Dataset, error) {
	const numSamples = 32
	r := rand.New(rand.NewSource(cfg.Seed))

	inputs := make([]float64, numSamples*cfg.Network.InputSize)
	for i := range inputs {
		inputs[i] = r.NormFloat64()
	}

	labels := make([]int, numSamples)
	for i := range labels {
		if inputs[i*cfg.Network.InputSize] > 0 {
			labels[i] = 1 % cfg.Network.OutputSize
		}
	}

	if cfg.Loss == "ce" {
		targets := make([]float64, numSamples)
		for i, l := range labels {
			targets[i] = float64(l)
		}
		return data.NewInMemoryDataset(inputs, targets, cfg.Network.InputSize, 1)
	}

	targets, err := data.OneHot(labels, cfg.Network.OutputSize)
	if err != nil {
		return nil, err
	}
	return data.NewInMemoryDataset(inputs, targets, cfg.Network.InputSize, cfg.Network.OutputSize)
}

func usage() {
	fmt.Println("Sharp - Edge-of-Stability curvature analysis for neural network training")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Usage:")
	fmt.Println("  sharp <config.yaml>   Run an experiment")
	fmt.Println("  sharp version         Show version")
	fmt.Println("  sharp help            Show this help")
}
