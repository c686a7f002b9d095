package hessian

import (
	"fmt"
	"math"
	"sort"
)

// Contributor is one parameter element's share of an eigenvector.
type Contributor struct {
	FlatIndex  int
	ParamName  string
	Layer      string
	Kind       Kind
	Coordinate []int
	Signed     float64
	Abs        float64
}

// TopContributors returns the topK eigenvector components of largest
// absolute value, descending, ties broken by flat index ascending.
//
// topK larger than the eigenvector length returns the full ordering.
// Returns ErrInvalidArgument if the eigenvector length does not match the
// index, or if topK is negative.
func TopContributors(eigenvector []float64, index *ParameterIndex, topK int) ([]Contributor, error) {
	if len(eigenvector) != index.NumParameters() {
		return nil, fmt.Errorf("%w: eigenvector length %d, index covers %d parameters",
			ErrInvalidArgument, len(eigenvector), index.NumParameters())
	}
	if topK < 0 {
		return nil, fmt.Errorf("%w: topK is %d", ErrInvalidArgument, topK)
	}
	if topK > len(eigenvector) {
		topK = len(eigenvector)
	}

	order := make([]int, len(eigenvector))
	for i := range order {
		order[i] = i
	}
	// Stable over ascending flat index, so equal magnitudes keep index order.
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(eigenvector[order[a]]) > math.Abs(eigenvector[order[b]])
	})

	out := make([]Contributor, topK)
	for rank := 0; rank < topK; rank++ {
		i := order[rank]
		entry := index.Entry(i)
		out[rank] = Contributor{
			FlatIndex:  i,
			ParamName:  entry.ParamName,
			Layer:      entry.Layer,
			Kind:       entry.Kind,
			Coordinate: entry.Coordinate,
			Signed:     eigenvector[i],
			Abs:        math.Abs(eigenvector[i]),
		}
	}
	return out, nil
}

// LayerContributions sums the absolute eigenvector components per layer.
//
// The per-layer totals sum to the eigenvector's total absolute mass.
// Returns ErrInvalidArgument if the eigenvector length does not match the
// index.
func LayerContributions(eigenvector []float64, index *ParameterIndex) (map[string]float64, error) {
	if len(eigenvector) != index.NumParameters() {
		return nil, fmt.Errorf("%w: eigenvector length %d, index covers %d parameters",
			ErrInvalidArgument, len(eigenvector), index.NumParameters())
	}

	out := make(map[string]float64, len(index.layerSizes))
	for _, seg := range index.segments {
		total := 0.0
		for i := seg.offset; i < seg.offset+seg.size; i++ {
			total += math.Abs(eigenvector[i])
		}
		out[seg.layer] += total
	}
	return out, nil
}
