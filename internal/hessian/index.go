// Package hessian implements second-order curvature analysis for neural
// network training: Hessian-vector products via double backpropagation, a
// Lanczos eigensolver over the implicit Hessian operator, attribution of
// eigenvector mass to named parameters and layers, and parameter-space
// trajectory tracking.
//
// The Hessian of the training loss is never materialized. All analyses run
// against a ParameterIndex, a fixed bijection between flat vector offsets
// and the model's named parameter tensors, built once per model.
package hessian

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sharp-ml/sharp/internal/nn"
	"github.com/sharp-ml/sharp/internal/tensor"
)

// Kind classifies a parameter tensor as weight or bias.
type Kind string

// Parameter kinds. A parameter is a bias iff its name ends in "bias";
// everything else counts as a weight.
const (
	KindWeight Kind = "weight"
	KindBias   Kind = "bias"
)

// segment is one named parameter tensor's slice of the flat vector.
type segment struct {
	name   string
	layer  string
	kind   Kind
	shape  tensor.Shape
	offset int
	size   int
}

// ParameterIndex is a bidirectional map between flat parameter-vector
// offsets and the structured, named parameter tensors of a model.
//
// It is built once from a model's stable parameter enumeration and is
// immutable afterward. Every flat offset in [0, NumParameters()) maps to
// exactly one (parameter, coordinate) pair.
type ParameterIndex struct {
	segments   []segment
	total      int
	layerSizes map[string]int
}

// Entry describes the parameter element behind one flat offset.
type Entry struct {
	FlatIndex  int
	ParamName  string
	Layer      string
	Kind       Kind
	Coordinate []int
	Shape      tensor.Shape
}

// BuildIndex constructs a ParameterIndex from a model's named parameters.
//
// The layer name is the prefix of the dotted parameter name before the first
// '.', or the full name if it contains none. The enumeration order of
// model.NamedParameters defines the flat layout; it must be stable across
// calls for the index to stay valid.
//
// Returns ErrConfiguration if the model exposes no parameters.
func BuildIndex[B tensor.Backend](model nn.Module[B]) (*ParameterIndex, error) {
	named := model.NamedParameters()
	if len(named) == 0 {
		return nil, fmt.Errorf("%w: model has no trainable parameters", ErrConfiguration)
	}

	ix := &ParameterIndex{
		segments:   make([]segment, 0, len(named)),
		layerSizes: make(map[string]int),
	}

	offset := 0
	for _, np := range named {
		layer := np.Name
		if i := strings.IndexByte(np.Name, '.'); i >= 0 {
			layer = np.Name[:i]
		}
		kind := KindWeight
		if strings.HasSuffix(np.Name, "bias") {
			kind = KindBias
		}

		size := np.Param.NumElements()
		ix.segments = append(ix.segments, segment{
			name:   np.Name,
			layer:  layer,
			kind:   kind,
			shape:  np.Param.Tensor().Shape().Clone(),
			offset: offset,
			size:   size,
		})
		ix.layerSizes[layer] += size
		offset += size
	}
	ix.total = offset

	return ix, nil
}

// NumParameters returns N, the total scalar parameter count.
func (ix *ParameterIndex) NumParameters() int {
	return ix.total
}

// Entry returns the index entry for flat offset i.
// Panics if i is outside [0, NumParameters()).
func (ix *ParameterIndex) Entry(i int) Entry {
	if i < 0 || i >= ix.total {
		panic(fmt.Sprintf("hessian: flat index %d out of range [0, %d)", i, ix.total))
	}

	// Binary search for the segment containing offset i.
	s := sort.Search(len(ix.segments), func(j int) bool {
		return ix.segments[j].offset+ix.segments[j].size > i
	})
	seg := ix.segments[s]

	return Entry{
		FlatIndex:  i,
		ParamName:  seg.name,
		Layer:      seg.layer,
		Kind:       seg.kind,
		Coordinate: seg.shape.Unravel(i - seg.offset),
		Shape:      seg.shape.Clone(),
	}
}

// Layers returns the layer names in first-appearance order.
func (ix *ParameterIndex) Layers() []string {
	layers := make([]string, 0, len(ix.layerSizes))
	seen := make(map[string]bool, len(ix.layerSizes))
	for _, seg := range ix.segments {
		if !seen[seg.layer] {
			seen[seg.layer] = true
			layers = append(layers, seg.layer)
		}
	}
	return layers
}

// LayerSizes returns the scalar parameter count per layer.
func (ix *ParameterIndex) LayerSizes() map[string]int {
	sizes := make(map[string]int, len(ix.layerSizes))
	for layer, size := range ix.layerSizes {
		sizes[layer] = size
	}
	return sizes
}

// FlattenParameters concatenates the model's parameter tensors into a flat
// vector in the enumeration order the index was built from.
func FlattenParameters[B tensor.Backend](model nn.Module[B]) []float64 {
	out := make([]float64, 0, nn.NumParameters(model))
	for _, np := range model.NamedParameters() {
		out = append(out, np.Param.Tensor().Raw().Data()...)
	}
	return out
}
