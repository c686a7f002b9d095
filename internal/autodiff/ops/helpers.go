package ops

import "github.com/sharp-ml/sharp/internal/tensor"

// reduceTo reduces a (possibly broadcast) gradient back to the shape of the
// input it belongs to. Reductions go through the backend so they are recorded
// when the backend is recording.
func reduceTo(grad *tensor.RawTensor, shape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	g := grad
	for len(g.Shape()) > len(shape) {
		g = backend.SumDim(g, 0, false)
	}
	for d := range shape {
		if shape[d] == 1 && g.Shape()[d] != 1 {
			g = backend.SumDim(g, d, true)
		}
	}
	if !g.Shape().Equal(shape) {
		g = backend.Reshape(g, shape)
	}
	return g
}

// onesShape returns a shape of the given rank with every dimension 1.
func onesShape(rank int) tensor.Shape {
	s := make(tensor.Shape, rank)
	for i := range s {
		s[i] = 1
	}
	return s
}

// constant creates an unrecorded tensor; it is a leaf of the graph.
func constant(shape tensor.Shape, device tensor.Device, fill func(data []float64)) *tensor.RawTensor {
	raw, err := tensor.NewRaw(shape, device)
	if err != nil {
		panic(err)
	}
	fill(raw.Data())
	return raw
}

// onesLike creates a constant tensor of ones with the same shape as t.
func onesLike(t *tensor.RawTensor) *tensor.RawTensor {
	return constant(t.Shape(), t.Device(), func(data []float64) {
		for i := range data {
			data[i] = 1.0
		}
	})
}
