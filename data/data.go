// Copyright 2025 Sharp ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides dataset containers with deterministic batching.
package data

import (
	"github.com/sharp-ml/sharp/internal/data"
)

// Dataset is a source of training examples with deterministic batching.
type Dataset = data.Dataset

// InMemoryDataset holds all examples as flat float64 slices.
type InMemoryDataset = data.InMemoryDataset

// NewInMemoryDataset creates a dataset from row-major flat slices.
func NewInMemoryDataset(inputs, targets []float64, features, targetDim int) (*InMemoryDataset, error) {
	return data.NewInMemoryDataset(inputs, targets, features, targetDim)
}

// OneHot expands integer class labels into one-hot rows.
func OneHot(labels []int, numClasses int) ([]float64, error) {
	return data.OneHot(labels, numClasses)
}
