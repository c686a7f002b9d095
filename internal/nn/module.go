package nn

import "github.com/sharp-ml/sharp/internal/tensor"

// NamedParameter pairs a parameter with its dotted path inside the model
// (e.g. "0.weight" for the weight of the first child of a Sequential).
//
// The enumeration order of named parameters is the stable contract the flat
// parameter vector and every flat-index-based analysis depend on: the order
// must be identical across calls for a given model.
type NamedParameter[B tensor.Backend] struct {
	Name  string
	Param *Parameter[B]
}

// Module is the base interface for all neural network components.
//
// Modules compose into architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 100, backend),
//	    nn.NewTanh[B](),
//	    nn.NewLinear(100, 10, backend),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[B]) *tensor.Tensor[B]

	// Parameters returns all trainable parameters of this module.
	// Returns an empty slice for parameter-free modules (activations).
	Parameters() []*Parameter[B]

	// NamedParameters returns all trainable parameters with their dotted
	// paths, in stable enumeration order.
	NamedParameters() []NamedParameter[B]
}

// NumParameters returns the total scalar parameter count of a module.
func NumParameters[B tensor.Backend](m Module[B]) int {
	n := 0
	for _, p := range m.Parameters() {
		n += p.NumElements()
	}
	return n
}
