// Package data provides dataset containers for training loops.
//
// A Dataset yields deterministic batches of input and target tensors.
// Determinism matters here: curvature measurements are only comparable
// across steps when every step sees the same data in the same order.
package data

import (
	"fmt"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// Dataset is a source of training examples with deterministic batching.
type Dataset interface {
	// Len returns the number of examples.
	Len() int

	// Batch returns inputs [size, features] and targets [size, targetDim]
	// for examples [start, start+size). The same (start, size) always
	// yields the same values.
	Batch(start, size int) (inputs, targets *tensor.RawTensor, err error)
}

// InMemoryDataset holds all examples as flat float64 slices.
type InMemoryDataset struct {
	inputs     []float64
	targets    []float64
	numSamples int
	features   int
	targetDim  int
}

// NewInMemoryDataset creates a dataset from row-major flat slices.
//
// Parameters:
//   - inputs: [numSamples * features] row-major input values
//   - targets: [numSamples * targetDim] row-major target values
//   - features: input dimension per example
//   - targetDim: target dimension per example (1 for class indices)
func NewInMemoryDataset(inputs, targets []float64, features, targetDim int) (*InMemoryDataset, error) {
	if features <= 0 || targetDim <= 0 {
		return nil, fmt.Errorf("invalid dimensions: features=%d, targetDim=%d", features, targetDim)
	}
	if len(inputs)%features != 0 {
		return nil, fmt.Errorf("inputs length %d not divisible by features %d", len(inputs), features)
	}
	numSamples := len(inputs) / features
	if len(targets) != numSamples*targetDim {
		return nil, fmt.Errorf("targets length %d, want %d (%d samples x %d)",
			len(targets), numSamples*targetDim, numSamples, targetDim)
	}

	return &InMemoryDataset{
		inputs:     inputs,
		targets:    targets,
		numSamples: numSamples,
		features:   features,
		targetDim:  targetDim,
	}, nil
}

// Len returns the number of examples.
func (d *InMemoryDataset) Len() int {
	return d.numSamples
}

// Features returns the input dimension per example.
func (d *InMemoryDataset) Features() int {
	return d.features
}

// TargetDim returns the target dimension per example.
func (d *InMemoryDataset) TargetDim() int {
	return d.targetDim
}

// Batch returns inputs [size, features] and targets [size, targetDim]
// for the examples [start, start+size). The returned tensors are copies.
func (d *InMemoryDataset) Batch(start, size int) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if start < 0 || size <= 0 || start+size > d.numSamples {
		return nil, nil, fmt.Errorf("batch [%d, %d) out of range for %d samples",
			start, start+size, d.numSamples)
	}

	in := make([]float64, size*d.features)
	copy(in, d.inputs[start*d.features:(start+size)*d.features])
	inputs, err := tensor.FromData(in, tensor.Shape{size, d.features}, tensor.CPU)
	if err != nil {
		return nil, nil, err
	}

	tg := make([]float64, size*d.targetDim)
	copy(tg, d.targets[start*d.targetDim:(start+size)*d.targetDim])
	targets, err := tensor.FromData(tg, tensor.Shape{size, d.targetDim}, tensor.CPU)
	if err != nil {
		return nil, nil, err
	}

	return inputs, targets, nil
}

// OneHot expands integer class labels into one-hot rows.
//
// Parameters:
//   - labels: class indices, each in [0, numClasses)
//   - numClasses: width of each one-hot row
//
// Returns:
//   - [len(labels) * numClasses] row-major flat slice
func OneHot(labels []int, numClasses int) ([]float64, error) {
	if numClasses <= 0 {
		return nil, fmt.Errorf("numClasses must be positive, got %d", numClasses)
	}
	out := make([]float64, len(labels)*numClasses)
	for i, label := range labels {
		if label < 0 || label >= numClasses {
			return nil, fmt.Errorf("label %d at index %d out of range [0, %d)", label, i, numClasses)
		}
		out[i*numClasses+label] = 1
	}
	return out, nil
}
