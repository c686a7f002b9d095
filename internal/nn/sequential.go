package nn

import (
	"strconv"

	"github.com/sharp-ml/sharp/internal/tensor"
)

// Sequential chains modules, feeding each output into the next module.
//
// Child parameters are exposed under dotted paths "<index>.<local name>"
// ("0.weight", "0.bias", "2.weight", ...), so the index doubles as the
// layer name in flat-vector attributions.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a sequential container over the given modules.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{modules: modules}
}

// Forward applies every child module in order.
func (s *Sequential[B]) Forward(input *tensor.Tensor[B]) *tensor.Tensor[B] {
	x := input
	for _, m := range s.modules {
		x = m.Forward(x)
	}
	return x
}

// Parameters returns all child parameters in enumeration order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// NamedParameters returns all child parameters under "<index>.<name>" paths,
// in stable enumeration order.
func (s *Sequential[B]) NamedParameters() []NamedParameter[B] {
	var named []NamedParameter[B]
	for i, m := range s.modules {
		prefix := strconv.Itoa(i) + "."
		for _, np := range m.NamedParameters() {
			named = append(named, NamedParameter[B]{
				Name:  prefix + np.Name,
				Param: np.Param,
			})
		}
	}
	return named
}

// Modules returns the child modules.
func (s *Sequential[B]) Modules() []Module[B] {
	return s.modules
}
